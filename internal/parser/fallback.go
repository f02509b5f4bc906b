package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxColonTermRunes bounds the text before a ':' delimiter so prose
// sentences containing a colon are not split into a card.
const maxColonTermRunes = 200

// strategy is one heuristic for recovering term/definition pairs from
// unstructured text. Strategies run in declaration order; the first one
// producing a card wins and the rest are skipped.
type strategy struct {
	name    string
	extract func(text string, lines []string) []Card
}

var strategies = []strategy{
	{name: "qa-markers", extract: func(text string, _ []string) []Card { return qaMarkerCards(text) }},
	{name: "numbered-choice", extract: func(_ string, lines []string) []Card { return numberedChoiceCards(lines) }},
	{name: "delimited-lines", extract: func(_ string, lines []string) []Card { return delimitedCards(lines) }},
	{name: "alternating-lines", extract: func(_ string, lines []string) []Card { return alternatingCards(lines) }},
}

// ParseHeuristics recovers cards from text without structured markers. It
// never fills MCQs or Meta. When no strategy finds anything the result
// carries a single NO_CONTENT_FOUND error.
func (p *Parser) ParseHeuristics(text string) Result {
	result := newResult()
	normalized := Normalize(text)
	lines := nonEmptyLines(normalized)

	for _, s := range strategies {
		cards := s.extract(normalized, lines)
		if len(cards) == 0 {
			continue
		}
		p.log.Debug().Str("strategy", s.name).Int("cards", len(cards)).Msg("heuristic strategy matched")
		result.Cards = cards
		return result
	}

	p.log.Debug().Int("lines", len(lines)).Msg("no heuristic strategy matched")
	result.Errors = append(result.Errors, ParseError{
		Code:    CodeNoContentFound,
		Message: p.msgs.format(msgNoContent),
	})
	return result
}

func nonEmptyLines(normalized string) []string {
	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func appendCard(cards []Card, term, definition string) []Card {
	term = strings.TrimSpace(term)
	definition = strings.TrimSpace(definition)
	if term == "" || definition == "" {
		return cards
	}
	return append(cards, Card{Front: term, Back: definition})
}

// ============================================================================
// Strategy 1: inline Q/A markers
// ============================================================================

var qaMarkerRegex = regexp.MustCompile(`(?i)(câu hỏi|question|q|đáp án|answer|trả lời|a):`)

var questionMarkers = map[string]bool{"câu hỏi": true, "question": true, "q": true}

// qaMarkerCards walks the question/answer markers in order. A question
// marker opens a term, the next answer marker closes it and opens the
// definition, which runs until the next question marker. Answer markers that
// do not follow a term are plain text.
func qaMarkerCards(text string) []Card {
	var cards []Card
	var term string
	termStart, defStart := -1, -1

	for _, loc := range qaMarkerRegex.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if !atWordStart(text, start) {
			continue
		}
		isQuestion := questionMarkers[strings.ToLower(text[loc[2]:loc[3]])]

		switch {
		case isQuestion:
			if defStart >= 0 {
				cards = appendCard(cards, term, text[defStart:start])
				defStart = -1
			}
			termStart = end
		case termStart >= 0:
			term = text[termStart:start]
			termStart = -1
			defStart = end
		}
	}
	if defStart >= 0 {
		cards = appendCard(cards, term, text[defStart:])
	}
	return cards
}

// atWordStart reports whether the byte offset is not preceded by a letter or digit
func atWordStart(text string, offset int) bool {
	if offset == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:offset])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// ============================================================================
// Strategy 2: numbered questions with a marked correct option
// ============================================================================

var (
	numberedQuestionRegex = regexp.MustCompile(`(?i)^(?:câu|question)?\s*\d{1,4}\s*[.):]\s+(.+)$`)
	// a) anywhere after whitespace, a. only at line start
	optionMarkerRegex = regexp.MustCompile(`(?m)(?:(?:^|[ \t])([a-fA-F])\)|^([a-fA-F])\.)[ \t]*`)
)

// numberedChoiceCards groups lines under "N. question" headers, splits each
// group into lettered options and keeps the option flagged as correct.
func numberedChoiceCards(lines []string) []Card {
	var cards []Card
	var group []string

	flush := func() {
		if len(group) == 0 {
			return
		}
		if term, definition, ok := correctOption(strings.Join(group, "\n")); ok {
			cards = appendCard(cards, term, definition)
		}
		group = nil
	}

	for _, line := range lines {
		if matches := numberedQuestionRegex.FindStringSubmatch(line); matches != nil {
			flush()
			group = append(group, matches[1])
			continue
		}
		if len(group) > 0 {
			group = append(group, line)
		}
	}
	flush()
	return cards
}

// correctOption splits a question group into question text and options.
// Option markers must appear in sequence a, b, c, ...; out-of-sequence
// markers are treated as text. An option ends at the next marker or at the
// end of its line, whichever comes first, so trailing notes are not read as
// part of the last option. Flag marks beat word marks; ties go to the
// earliest option.
func correctOption(group string) (question, answer string, ok bool) {
	type span struct{ start, end int }
	var markers []span
	expected := 'a'

	for _, loc := range optionMarkerRegex.FindAllStringSubmatchIndex(group, -1) {
		var letter string
		if loc[2] >= 0 {
			letter = group[loc[2]:loc[3]]
		} else {
			letter = group[loc[4]:loc[5]]
		}
		if rune(strings.ToLower(letter)[0]) != expected {
			continue
		}
		markers = append(markers, span{start: loc[0], end: loc[1]})
		expected++
	}
	if len(markers) < 2 {
		return "", "", false
	}

	best := markNone
	for i, m := range markers {
		end := len(group)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		if nl := strings.IndexByte(group[m.end:end], '\n'); nl >= 0 {
			end = m.end + nl
		}
		if text, mark := stripCorrectMark(group[m.end:end]); mark > best {
			answer, best = text, mark
		}
	}
	if best == markNone {
		return "", "", false
	}
	return group[:markers[0].start], answer, true
}

// markStrength ranks how explicitly an option is flagged as correct: a
// separated word ("Hà Nội - đúng") is weaker than a flag ("Hà Nội *").
type markStrength int

const (
	markNone markStrength = iota
	markWord
	markFlag
)

var correctSuffixes = []string{"*", "(đ)", "(đúng)", "(correct)"}

var correctWords = []string{"đúng", "correct"}

// wordSeparators must sit between the option text and a trailing correct word
const wordSeparators = "-–—:"

// stripCorrectMark removes a trailing correct-answer flag ("*", "(đ)",
// "(đúng)") or a separated correct word ("- đúng", ": correct") and reports
// how strong the mark was. A bare word is option text: "Đúng" is the answer
// "True" and "Không đúng" means "not correct". A mark that would leave no
// option text is not a mark.
func stripCorrectMark(option string) (string, markStrength) {
	s := strings.TrimSpace(option)
	for _, suffix := range correctSuffixes {
		if !hasSuffixFold(s, suffix) {
			continue
		}
		if text := strings.TrimSpace(s[:len(s)-len(suffix)]); text != "" {
			return text, markFlag
		}
		return s, markNone
	}
	for _, word := range correctWords {
		if !hasSuffixFold(s, word) {
			continue
		}
		rest := strings.TrimRight(s[:len(s)-len(word)], " \t")
		if r, _ := utf8.DecodeLastRuneInString(rest); rest == "" || !strings.ContainsRune(wordSeparators, r) {
			continue
		}
		if text := strings.TrimRight(rest, " \t"+wordSeparators); text != "" {
			return text, markWord
		}
	}
	return s, markNone
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// ============================================================================
// Strategy 3: delimiter-separated lines
// ============================================================================

var bulletRegex = regexp.MustCompile(`^(?:[-*•]|\+)\s+`)

func delimitedCards(lines []string) []Card {
	var cards []Card
	for _, line := range lines {
		if term, definition, ok := splitDelimited(line); ok {
			cards = appendCard(cards, term, definition)
		}
	}
	return cards
}

// splitDelimited tries tab, then " - ", then ':' and returns the first split
// leaving text on both sides.
func splitDelimited(line string) (term, definition string, ok bool) {
	line = bulletRegex.ReplaceAllString(line, "")

	if i := strings.IndexByte(line, '\t'); i >= 0 {
		if term, definition, ok = splitAt(line, i, 1); ok {
			return term, definition, true
		}
	}
	if i := strings.Index(line, " - "); i > 0 {
		if term, definition, ok = splitAt(line, i, 3); ok {
			return term, definition, true
		}
	}
	if i := strings.IndexByte(line, ':'); i > 0 && !hasPrefixFold(line, "http") {
		if utf8.RuneCountInString(line[:i]) < maxColonTermRunes {
			if term, definition, ok = splitAt(line, i, 1); ok {
				return term, definition, true
			}
		}
	}
	return "", "", false
}

func splitAt(line string, i, width int) (string, string, bool) {
	term := strings.TrimSpace(line[:i])
	definition := strings.TrimSpace(line[i+width:])
	return term, definition, term != "" && definition != ""
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// ============================================================================
// Strategy 4: alternating lines
// ============================================================================

// alternatingCards pairs line 2i with line 2i+1; an odd last line is dropped
func alternatingCards(lines []string) []Card {
	var cards []Card
	for i := 0; i+1 < len(lines); i += 2 {
		cards = appendCard(cards, lines[i], lines[i+1])
	}
	return cards
}
