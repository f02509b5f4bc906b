package parser

import "strings"

// Format renders a result in the structured text format. Parsing the output
// with ParseContent yields the same cards, questions and deck metadata as
// long as no field contains a line that starts with a block label.
func Format(r Result) string {
	var sections []string

	if header := formatMeta(r.Meta); header != "" {
		sections = append(sections, header)
	}
	for _, card := range r.Cards {
		sections = append(sections, formatCard(card))
	}
	for _, mcq := range r.MCQs {
		sections = append(sections, formatMCQ(mcq))
	}

	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func formatMeta(meta DeckMeta) string {
	var lines []string
	if meta.DeckTitle != "" {
		lines = append(lines, "#DECK "+meta.DeckTitle)
	}
	if meta.DeckDesc != "" {
		lines = append(lines, "#DESC "+meta.DeckDesc)
	}
	return strings.Join(lines, "\n")
}

func formatCard(card Card) string {
	return cardMarker + "\nQ: " + card.Front + "\nA: " + card.Back
}

func formatMCQ(mcq MCQ) string {
	var b strings.Builder
	b.WriteString(mcqMarker)
	b.WriteString("\nQ: ")
	b.WriteString(mcq.Question)
	for _, letter := range optionLetters {
		if opt := mcq.Options.Get(letter); opt != "" {
			b.WriteString("\n" + letter + ": " + opt)
		}
	}
	if mcq.Answer != "" {
		b.WriteString("\nANSWER: " + mcq.Answer)
	}
	if mcq.Explain != "" {
		b.WriteString("\nEXPLAIN: " + mcq.Explain)
	}
	return b.String()
}
