package parser

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	cardMarker = "@CARD"
	mcqMarker  = "@MCQ"
)

var (
	deckRegex      = regexp.MustCompile(`^#DECK(?:\s+(.*))?$`)
	descRegex      = regexp.MustCompile(`^#DESC(?:\s+(.*))?$`)
	cardLabelRegex = regexp.MustCompile(`^(Q|A):\s*(.*)$`)
	mcqLabelRegex  = regexp.MustCompile(`^(Q|A|B|C|D|ANSWER|EXPLAIN):\s*(.*)$`)
)

var optionLetters = []string{"A", "B", "C", "D"}

// ParseContent parses text written in the structured format (@CARD / @MCQ
// blocks, #DECK / #DESC headers). Malformed blocks are reported in
// Result.Errors and never stop the remaining blocks from being parsed.
func (p *Parser) ParseContent(text string) Result {
	s := &structuredState{msgs: p.msgs, result: newResult()}
	for _, line := range normalizeLines(text) {
		s.feed(line)
	}
	s.closeAll()

	p.log.Debug().
		Int("cards", len(s.result.Cards)).
		Int("mcqs", len(s.result.MCQs)).
		Int("errors", len(s.result.Errors)).
		Msg("structured parse complete")
	return s.result
}

// structuredState is the per-call state machine. At most one of desc, card
// and mcq is open at any time.
type structuredState struct {
	msgs   catalog
	result Result

	desc *descBlock
	card *cardBlock
	mcq  *mcqBlock
}

func (s *structuredState) feed(line sourceLine) {
	text := line.text

	switch {
	case text == cardMarker:
		s.closeAll()
		s.card = &cardBlock{line: line.num}
		return
	case text == mcqMarker:
		s.closeAll()
		s.mcq = &mcqBlock{line: line.num}
		return
	}

	if matches := deckRegex.FindStringSubmatch(text); matches != nil {
		s.closeAll()
		if title := strings.TrimSpace(matches[1]); title != "" {
			s.result.Meta.DeckTitle = title
		}
		return
	}

	if matches := descRegex.FindStringSubmatch(text); matches != nil {
		s.closeAll()
		s.desc = &descBlock{lines: []string{strings.TrimSpace(matches[1])}}
		return
	}

	switch {
	case s.desc != nil:
		if text == "" {
			s.closeDesc()
			return
		}
		s.desc.lines = append(s.desc.lines, text)
	case s.card != nil:
		s.card.feed(text)
	case s.mcq != nil:
		s.mcq.feed(text)
	}
}

func (s *structuredState) closeAll() {
	s.closeDesc()
	s.closeCard()
	s.closeMCQ()
}

func (s *structuredState) closeDesc() {
	if s.desc == nil {
		return
	}
	if desc := joinField(s.desc.lines); desc != "" {
		s.result.Meta.DeckDesc = desc
	}
	s.desc = nil
}

func (s *structuredState) closeCard() {
	if s.card == nil {
		return
	}
	card, perr := s.card.finish(s.msgs)
	if perr != nil {
		s.result.Errors = append(s.result.Errors, *perr)
	} else {
		s.result.Cards = append(s.result.Cards, card)
	}
	s.card = nil
}

func (s *structuredState) closeMCQ() {
	if s.mcq == nil {
		return
	}
	mcq, perr := s.mcq.finish(s.msgs)
	if perr != nil {
		s.result.Errors = append(s.result.Errors, *perr)
	} else {
		s.result.MCQs = append(s.result.MCQs, mcq)
	}
	s.mcq = nil
}

// ============================================================================
// Blocks
// ============================================================================

type descBlock struct {
	lines []string
}

type cardField int

const (
	cardNone cardField = iota
	cardFront
	cardBack
)

// cardBlock accumulates an open @CARD block
type cardBlock struct {
	line   int
	front  []string
	back   []string
	active cardField
}

// feed routes one line into the card. The back field runs to the end of the
// block, so label lines after A: are kept as back text.
func (b *cardBlock) feed(text string) {
	if b.active == cardBack {
		b.back = append(b.back, text)
		return
	}
	if matches := cardLabelRegex.FindStringSubmatch(text); matches != nil {
		if matches[1] == "Q" {
			b.active = cardFront
		} else {
			b.active = cardBack
		}
		b.appendActive(matches[2])
		return
	}
	b.appendActive(text)
}

func (b *cardBlock) appendActive(text string) {
	switch b.active {
	case cardFront:
		b.front = append(b.front, text)
	case cardBack:
		b.back = append(b.back, text)
	}
}

func (b *cardBlock) finish(msgs catalog) (Card, *ParseError) {
	card := Card{Front: joinField(b.front), Back: joinField(b.back)}

	var missing []string
	if card.Front == "" {
		missing = append(missing, msgs[nameFront])
	}
	if card.Back == "" {
		missing = append(missing, msgs[nameBack])
	}
	if len(missing) > 0 {
		return Card{}, &ParseError{
			Code:    CodeIncompleteCard,
			Message: msgs.format(msgIncompleteCard, msgs.list(missing)),
			Line:    b.line,
		}
	}
	return card, nil
}

type mcqField int

const (
	mcqNone mcqField = iota
	mcqQuestion
	mcqOption
	mcqAnswer
	mcqExplain
)

// mcqBlock accumulates an open @MCQ block
type mcqBlock struct {
	line     int
	question []string
	options  [4][]string
	answer   string
	explain  []string

	active    mcqField
	optionIdx int
}

func (b *mcqBlock) feed(text string) {
	// EXPLAIN runs to the next block marker, labels included.
	if b.active == mcqExplain {
		b.explain = append(b.explain, text)
		return
	}

	matches := mcqLabelRegex.FindStringSubmatch(text)
	if matches == nil {
		b.appendActive(text)
		return
	}

	label, rest := matches[1], matches[2]
	switch label {
	case "Q":
		b.active = mcqQuestion
	case "ANSWER":
		b.active = mcqAnswer
		b.answer = strings.ToUpper(strings.TrimSpace(rest))
		return
	case "EXPLAIN":
		b.active = mcqExplain
	default:
		b.active = mcqOption
		b.optionIdx = int(label[0] - 'A')
	}
	b.appendActive(rest)
}

func (b *mcqBlock) appendActive(text string) {
	switch b.active {
	case mcqQuestion:
		b.question = append(b.question, text)
	case mcqOption:
		b.options[b.optionIdx] = append(b.options[b.optionIdx], text)
	case mcqExplain:
		b.explain = append(b.explain, text)
	}
}

// finish validates the block fail-fast: required parts, then the answer
// letter, then the remaining options.
func (b *mcqBlock) finish(msgs catalog) (MCQ, *ParseError) {
	mcq := MCQ{
		Question: joinField(b.question),
		Answer:   b.answer,
		Explain:  joinField(b.explain),
	}
	for i, letter := range optionLetters {
		mcq.Options.set(letter, joinField(b.options[i]))
	}

	fail := func(code ErrorCode, message string) (MCQ, *ParseError) {
		return MCQ{}, &ParseError{Code: code, Message: message, Line: b.line}
	}

	var missing []string
	if mcq.Question == "" {
		missing = append(missing, msgs[nameQuestion])
	}
	missing = append(missing, missingOptions(msgs, mcq.Options, "A", "B")...)
	if len(missing) > 0 {
		return fail(CodeIncompleteMCQ, msgs.format(msgIncompleteMCQ, msgs.list(missing)))
	}

	if mcq.Answer == "" {
		return fail(CodeMCQMissingAnswer, msgs.format(msgMissingAnswer))
	}
	if !isOptionLetter(mcq.Answer) {
		return fail(CodeMCQInvalidAnswer, msgs.format(msgInvalidAnswer, mcq.Answer))
	}
	if mcq.Options.Get(mcq.Answer) == "" {
		return fail(CodeMCQAnswerNotFound, msgs.format(msgAnswerNotFound, mcq.Answer))
	}

	if missing := missingOptions(msgs, mcq.Options, "C", "D"); len(missing) > 0 {
		return fail(CodeIncompleteMCQ, msgs.format(msgIncompleteMCQ, msgs.list(missing)))
	}
	return mcq, nil
}

func missingOptions(msgs catalog, opts Options, letters ...string) []string {
	var missing []string
	for _, letter := range letters {
		if opts.Get(letter) == "" {
			missing = append(missing, fmt.Sprintf(msgs[nameOption], letter))
		}
	}
	return missing
}

func isOptionLetter(s string) bool {
	for _, letter := range optionLetters {
		if s == letter {
			return true
		}
	}
	return false
}

// joinField joins accumulated lines with \n and trims the edges, keeping
// blank lines inside the field.
func joinField(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
