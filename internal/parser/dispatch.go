package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how Parse interprets its input
type Mode string

const (
	ModeAuto       Mode = "auto"       // structured when markers are present, heuristics otherwise
	ModeStructured Mode = "structured" // structured format only
	ModeHeuristic  Mode = "heuristic"  // heuristic strategies only
)

// ErrUnknownMode is returned for a mode outside auto/structured/heuristic
var ErrUnknownMode = errors.New("unknown parse mode")

// Modes lists the accepted parse modes
func Modes() []Mode {
	return []Mode{ModeAuto, ModeStructured, ModeHeuristic}
}

// ParseMode converts a user-supplied string into a Mode
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes() {
		if mode == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

var structuredMarkerRegex = regexp.MustCompile(`@CARD|@MCQ|#DECK`)

// HasStructuredMarkers reports whether text contains @CARD, @MCQ or #DECK
func HasStructuredMarkers(text string) bool {
	return structuredMarkerRegex.MatchString(text)
}

// ParseWithFallback parses structured text when markers are present and
// falls back to the heuristic strategies when there are none, or when the
// markers produced neither items nor errors.
func (p *Parser) ParseWithFallback(text string) Result {
	// Normalization only touches whitespace, so markers can be detected on the raw text.
	if HasStructuredMarkers(text) {
		result := p.ParseContent(text)
		if !result.Empty() || result.HasErrors() {
			return result
		}
		p.log.Debug().Msg("structured markers yielded nothing, trying heuristics")
	}
	return p.ParseHeuristics(text)
}

// Parse dispatches on mode
func (p *Parser) Parse(text string, mode Mode) (Result, error) {
	switch mode {
	case ModeAuto:
		return p.ParseWithFallback(text), nil
	case ModeStructured:
		return p.ParseContent(text), nil
	case ModeHeuristic:
		return p.ParseHeuristics(text), nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}
