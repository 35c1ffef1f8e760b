package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"guessgame/internal/service"
)

// Screen identifiers carried in /input?id=
const (
	ScreenIndex         = "index"
	ScreenGame          = "game"
	ScreenPlayAgain     = "play-again"
	ScreenWinner        = "winner"
	ScreenSettings      = "settings"
	ScreenSettingsRange = "settings-range"
	ScreenSettingsLang  = "settings-lang"
	ScreenHighscores    = "highscores"
	ScreenNoHighscores  = "no-highscores"
)

// Action is the state change a transition asks the handler to perform
type Action int

const (
	ActionNone Action = iota
	ActionIncrementGuess
	ActionToggleHardMode
	ActionSetRange
	ActionSetLanguage
	ActionRecordResult
)

// Transition is the outcome of routing one input on one screen. An empty
// Target means the handler renders the next screen itself instead of
// redirecting.
type Transition struct {
	Action Action
	Target string
	Status int

	// Input is the submitted text with surrounding whitespace removed
	Input string
	// Range is set for ActionSetRange
	Range int
	// LanguageIndex is set for ActionSetLanguage
	LanguageIndex int
}

func redirect(target string) Transition {
	return Transition{Target: target, Status: http.StatusFound}
}

// replay keeps the method and body, so the POST lands on the target unchanged
func replay(target string) Transition {
	return Transition{Target: target, Status: http.StatusTemporaryRedirect}
}

// Route maps the current screen and the player's raw input to the next step.
// It never touches storage; languageCount bounds the settings-lang letters.
func Route(screen, input string, languageCount int) Transition {
	input = strings.TrimSpace(input)
	choice := strings.ToUpper(input)

	var t Transition
	switch screen {
	case ScreenIndex:
		switch choice {
		case "A":
			t = redirect("/game")
		case "B":
			t = redirect("/highscores")
		case "C":
			t = redirect("/settings")
		default:
			t = redirect("/")
		}

	case ScreenGame:
		t = replay("/game")
		if service.IsNumeric(choice) {
			t.Action = ActionIncrementGuess
		}

	case ScreenPlayAgain:
		if choice == "Y" {
			t = redirect("/game")
		} else {
			t = redirect("/")
		}

	case ScreenSettings:
		switch choice {
		case "A":
			t = replay("/settings?id=range")
		case "B":
			t = redirect("/settings")
			t.Action = ActionToggleHardMode
		case "C":
			t = replay("/settings?id=lang")
		default:
			t = redirect("/")
		}

	case ScreenSettingsRange:
		if n, ok := parseRange(choice); ok {
			t = redirect("/settings")
			t.Action = ActionSetRange
			t.Range = n
		} else {
			t = replay("/settings?id=range")
		}

	case ScreenSettingsLang:
		if idx, ok := letterIndex(choice); ok && idx < languageCount {
			t = redirect("/settings")
			t.Action = ActionSetLanguage
			t.LanguageIndex = idx
		} else {
			t = replay("/settings?id=lang")
		}

	case ScreenWinner:
		t = Transition{Action: ActionRecordResult, Status: http.StatusOK}

	default:
		// highscores, no-highscores and anything unknown go back to the menu
		t = redirect("/")
	}

	t.Input = input
	return t
}

func parseRange(choice string) (int, bool) {
	if !service.IsNumeric(choice) {
		return 0, false
	}
	n, err := strconv.ParseInt(choice, 10, 32)
	if err != nil || n < 1 {
		return 0, false
	}
	return int(n), true
}

// letterIndex maps A..Z to 0..25
func letterIndex(choice string) (int, bool) {
	if utf8.RuneCountInString(choice) != 1 {
		return 0, false
	}
	c := choice[0]
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	return int(c - 'A'), true
}
