package exporter

import "github.com/gubarz/flashparse/internal/parser"

// Export is the payload handed to whatever creates the flashcard set.
// Every item carries a fresh id so the receiver can store it as-is.
type Export struct {
	ID     string              `json:"id" yaml:"id"`
	Deck   *Deck               `json:"deck,omitempty" yaml:"deck,omitempty"`
	Cards  []CardExport        `json:"cards" yaml:"cards"`
	MCQs   []MCQExport         `json:"mcqs" yaml:"mcqs"`
	Errors []parser.ParseError `json:"errors" yaml:"errors"`
}

// Deck is the exported #DECK / #DESC metadata
type Deck struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type CardExport struct {
	ID    string `json:"id" yaml:"id"`
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

type MCQExport struct {
	ID       string         `json:"id" yaml:"id"`
	Question string         `json:"question" yaml:"question"`
	Options  parser.Options `json:"options" yaml:"options"`
	Answer   string         `json:"answer" yaml:"answer"`
	Explain  string         `json:"explain,omitempty" yaml:"explain,omitempty"`
}

// Build converts a parse result into the export envelope
func (e *Exporter) Build(result parser.Result) Export {
	export := Export{
		ID:     e.newID(),
		Cards:  make([]CardExport, 0, len(result.Cards)),
		MCQs:   make([]MCQExport, 0, len(result.MCQs)),
		Errors: result.Errors,
	}
	if export.Errors == nil {
		export.Errors = []parser.ParseError{}
	}

	if meta := result.Meta; meta.DeckTitle != "" || meta.DeckDesc != "" {
		export.Deck = &Deck{Title: meta.DeckTitle, Description: meta.DeckDesc}
	}

	for _, card := range result.Cards {
		export.Cards = append(export.Cards, CardExport{
			ID:    e.newID(),
			Front: card.Front,
			Back:  card.Back,
		})
	}
	for _, mcq := range result.MCQs {
		export.MCQs = append(export.MCQs, MCQExport{
			ID:       e.newID(),
			Question: mcq.Question,
			Options:  mcq.Options,
			Answer:   mcq.Answer,
			Explain:  mcq.Explain,
		})
	}
	return export
}
