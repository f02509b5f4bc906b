package parser

import "fmt"

// ErrorCode identifies the kind of problem found in a document.
// Codes are stable: new ones may be added, existing ones never change meaning.
type ErrorCode string

const (
	CodeIncompleteCard    ErrorCode = "INCOMPLETE_CARD"
	CodeIncompleteMCQ     ErrorCode = "INCOMPLETE_MCQ"
	CodeMCQMissingAnswer  ErrorCode = "MCQ_MISSING_ANSWER"
	CodeMCQInvalidAnswer  ErrorCode = "MCQ_INVALID_ANSWER"
	CodeMCQAnswerNotFound ErrorCode = "MCQ_ANSWER_NOT_FOUND"
	CodeNoContentFound    ErrorCode = "NO_CONTENT_FOUND"
)

// Card is a two-sided flashcard
type Card struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// Options holds the four lettered choices of a multiple-choice question.
// Field order is the serialisation order.
type Options struct {
	A string `json:"A" yaml:"A"`
	B string `json:"B" yaml:"B"`
	C string `json:"C" yaml:"C"`
	D string `json:"D" yaml:"D"`
}

// Get returns the option text for letter (A-D), or "" for anything else
func (o Options) Get(letter string) string {
	switch letter {
	case "A":
		return o.A
	case "B":
		return o.B
	case "C":
		return o.C
	case "D":
		return o.D
	}
	return ""
}

// set assigns the option text for letter (A-D)
func (o *Options) set(letter, text string) {
	switch letter {
	case "A":
		o.A = text
	case "B":
		o.B = text
	case "C":
		o.C = text
	case "D":
		o.D = text
	}
}

// MCQ is a multiple-choice question
type MCQ struct {
	Question string  `json:"question" yaml:"question"`
	Options  Options `json:"options" yaml:"options"`
	Answer   string  `json:"answer" yaml:"answer"`
	Explain  string  `json:"explain,omitempty" yaml:"explain,omitempty"`
}

// DeckMeta carries the #DECK / #DESC headers. Empty means not set.
type DeckMeta struct {
	DeckTitle string `json:"deckTitle,omitempty" yaml:"deckTitle,omitempty"`
	DeckDesc  string `json:"deckDesc,omitempty" yaml:"deckDesc,omitempty"`
}

// ParseError describes one malformed block. Line is 1-based; 0 means unknown.
type ParseError struct {
	Code    ErrorCode `json:"code" yaml:"code"`
	Message string    `json:"message" yaml:"message"`
	Line    int       `json:"line,omitempty" yaml:"line,omitempty"`
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: [%s] %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Result is everything recovered from one parse call
type Result struct {
	Cards  []Card       `json:"cards" yaml:"cards"`
	MCQs   []MCQ        `json:"mcqs" yaml:"mcqs"`
	Errors []ParseError `json:"errors" yaml:"errors"`
	Meta   DeckMeta     `json:"meta" yaml:"meta"`
}

func newResult() Result {
	return Result{
		Cards:  make([]Card, 0),
		MCQs:   make([]MCQ, 0),
		Errors: make([]ParseError, 0),
	}
}

// Empty reports whether no cards and no questions were recovered
func (r Result) Empty() bool {
	return len(r.Cards) == 0 && len(r.MCQs) == 0
}

// HasErrors reports whether any block was rejected
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}
