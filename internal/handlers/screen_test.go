package handlers

import (
	"net/http"
	"testing"
)

func TestRoute(t *testing.T) {
	const languages = 2

	tests := []struct {
		name   string
		screen string
		input  string
		action Action
		target string
		status int
	}{
		{"index play", ScreenIndex, "A", ActionNone, "/game", http.StatusFound},
		{"index lowercase", ScreenIndex, "a", ActionNone, "/game", http.StatusFound},
		{"index highscores", ScreenIndex, "B", ActionNone, "/highscores", http.StatusFound},
		{"index settings", ScreenIndex, " c ", ActionNone, "/settings", http.StatusFound},
		{"index other", ScreenIndex, "Z", ActionNone, "/", http.StatusFound},

		{"game numeric", ScreenGame, "12", ActionIncrementGuess, "/game", http.StatusTemporaryRedirect},
		{"game padded numeric", ScreenGame, " 3 ", ActionIncrementGuess, "/game", http.StatusTemporaryRedirect},
		{"game overflow still counts", ScreenGame, "99999999999", ActionIncrementGuess, "/game", http.StatusTemporaryRedirect},
		{"game text", ScreenGame, "abc", ActionNone, "/game", http.StatusTemporaryRedirect},
		{"game empty", ScreenGame, "", ActionNone, "/game", http.StatusTemporaryRedirect},

		{"play again yes", ScreenPlayAgain, "y", ActionNone, "/game", http.StatusFound},
		{"play again no", ScreenPlayAgain, "N", ActionNone, "/", http.StatusFound},

		{"settings range", ScreenSettings, "A", ActionNone, "/settings?id=range", http.StatusTemporaryRedirect},
		{"settings toggle", ScreenSettings, "B", ActionToggleHardMode, "/settings", http.StatusFound},
		{"settings lang", ScreenSettings, "C", ActionNone, "/settings?id=lang", http.StatusTemporaryRedirect},
		{"settings other", ScreenSettings, "D", ActionNone, "/", http.StatusFound},

		{"range valid", ScreenSettingsRange, "50", ActionSetRange, "/settings", http.StatusFound},
		{"range zero", ScreenSettingsRange, "0", ActionNone, "/settings?id=range", http.StatusTemporaryRedirect},
		{"range negative", ScreenSettingsRange, "-5", ActionNone, "/settings?id=range", http.StatusTemporaryRedirect},
		{"range text", ScreenSettingsRange, "ten", ActionNone, "/settings?id=range", http.StatusTemporaryRedirect},
		{"range overflow", ScreenSettingsRange, "2147483648", ActionNone, "/settings?id=range", http.StatusTemporaryRedirect},

		{"lang first", ScreenSettingsLang, "A", ActionSetLanguage, "/settings", http.StatusFound},
		{"lang second", ScreenSettingsLang, "b", ActionSetLanguage, "/settings", http.StatusFound},
		{"lang out of range", ScreenSettingsLang, "C", ActionNone, "/settings?id=lang", http.StatusTemporaryRedirect},
		{"lang not a letter", ScreenSettingsLang, "1", ActionNone, "/settings?id=lang", http.StatusTemporaryRedirect},
		{"lang two letters", ScreenSettingsLang, "AB", ActionNone, "/settings?id=lang", http.StatusTemporaryRedirect},
		{"lang empty", ScreenSettingsLang, "", ActionNone, "/settings?id=lang", http.StatusTemporaryRedirect},

		{"winner", ScreenWinner, "ada", ActionRecordResult, "", http.StatusOK},

		{"highscores", ScreenHighscores, "anything", ActionNone, "/", http.StatusFound},
		{"no highscores", ScreenNoHighscores, "", ActionNone, "/", http.StatusFound},
		{"unknown screen", "nowhere", "A", ActionNone, "/", http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.screen, tt.input, languages)
			if got.Action != tt.action || got.Target != tt.target || got.Status != tt.status {
				t.Errorf("Route(%q, %q) = {%v %q %d}, want {%v %q %d}",
					tt.screen, tt.input, got.Action, got.Target, got.Status, tt.action, tt.target, tt.status)
			}
		})
	}
}

func TestRoutePayloads(t *testing.T) {
	if got := Route(ScreenSettingsRange, " 42 ", 2); got.Range != 42 {
		t.Errorf("Range = %d, want 42", got.Range)
	}
	if got := Route(ScreenSettingsLang, "b", 2); got.LanguageIndex != 1 {
		t.Errorf("LanguageIndex = %d, want 1", got.LanguageIndex)
	}
	if got := Route(ScreenWinner, "  grace  ", 2); got.Input != "grace" {
		t.Errorf("Input = %q, want trimmed original case", got.Input)
	}
}
