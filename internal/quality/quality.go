package quality

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Level selects a transcode profile.
type Level string

const (
	Native Level = "native"
	Best   Level = "best"
	Good   Level = "good"
	Medium Level = "medium"
	Low    Level = "low"
)

// PerformanceMode trades encode quality for speed on weaker hardware.
type PerformanceMode string

const (
	ModeNormal PerformanceMode = "normal"
	ModeLow    PerformanceMode = "low"
)

// InvalidSelectionError reports an unknown or contradictory quality request.
type InvalidSelectionError struct {
	Input  string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	if e.Input == "" {
		return "invalid quality selection: " + e.Reason
	}
	return fmt.Sprintf("invalid quality selection %q: %s", e.Input, e.Reason)
}

var aliases = map[string]Level{
	"native": Native,
	"none":   Native,
	"":       Native,
	"best":   Best,
	"8k":     Best,
	"good":   Good,
	"4k":     Good,
	"medium": Medium,
	"2k":     Medium,
	"low":    Low,
}

// Parse resolves a level name or alias. Empty input selects Native.
func Parse(s string) (Level, error) {
	key := foldCase(s)
	if level, ok := aliases[key]; ok {
		return level, nil
	}
	return "", &InvalidSelectionError{Input: s, Reason: "expected one of " + strings.Join(Names(), ", ")}
}

// ParseMode accepts normal/low as well as the yes/no answer to "use low
// performance mode?".
func ParseMode(s string) (PerformanceMode, error) {
	switch foldCase(s) {
	case "", "normal", "n", "no":
		return ModeNormal, nil
	case "low", "y", "yes":
		return ModeLow, nil
	default:
		return "", &InvalidSelectionError{Input: s, Reason: "performance mode must be normal or low"}
	}
}

// Resolve folds the performance mode into the level. Low mode cannot be
// combined with a forced resolution.
func Resolve(level Level, mode PerformanceMode) (Level, error) {
	if _, ok := table[level]; !ok {
		return "", &InvalidSelectionError{Input: string(level), Reason: "unknown level"}
	}
	switch mode {
	case ModeNormal, "":
		return level, nil
	case ModeLow:
		if level.Forced() {
			return "", &InvalidSelectionError{
				Input:  string(level),
				Reason: "low performance mode cannot force a resolution",
			}
		}
		return Low, nil
	default:
		return "", &InvalidSelectionError{Input: string(mode), Reason: "unknown performance mode"}
	}
}

func foldCase(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Forced reports whether the level rescales the output.
func (l Level) Forced() bool {
	return l == Best || l == Good || l == Medium
}

// Title returns the display name of the level.
func (l Level) Title() string {
	return cases.Title(language.Und).String(string(l))
}

func (l Level) String() string {
	return string(l)
}

// Names lists every level name in table order.
func Names() []string {
	names := make([]string, 0, len(order))
	for _, level := range order {
		names = append(names, string(level))
	}
	return names
}
