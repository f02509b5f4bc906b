package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/gubarz/flashparse/internal/parser"
)

// ============================================================================
// Preview Items
// ============================================================================

// itemKind tells cards, questions and errors apart in the list
type itemKind int

const (
	kindCard itemKind = iota
	kindMCQ
	kindError
)

func (k itemKind) label() string {
	switch k {
	case kindMCQ:
		return "mcq"
	case kindError:
		return "error"
	default:
		return "card"
	}
}

// previewItem is one row of the list with everything needed to render it
type previewItem struct {
	kind       itemKind
	title      string // front, question or error code
	detail     string // back, correct option or error message
	markdown   string
	searchText string // lowercased title+detail
}

// newPreviewItems flattens a result into list rows: cards, then questions, then errors
func newPreviewItems(result parser.Result) []previewItem {
	items := make([]previewItem, 0, len(result.Cards)+len(result.MCQs)+len(result.Errors))

	for i, card := range result.Cards {
		items = append(items, newItem(kindCard, card.Front, card.Back, cardMarkdown(i+1, card)))
	}
	for i, mcq := range result.MCQs {
		answer := mcq.Answer + ". " + mcq.Options.Get(mcq.Answer)
		items = append(items, newItem(kindMCQ, mcq.Question, answer, mcqMarkdown(i+1, mcq)))
	}
	for _, perr := range result.Errors {
		items = append(items, newItem(kindError, string(perr.Code), perr.Message, errorMarkdown(perr)))
	}
	return items
}

func newItem(kind itemKind, title, detail, markdown string) previewItem {
	return previewItem{
		kind:       kind,
		title:      title,
		detail:     detail,
		markdown:   markdown,
		searchText: strings.ToLower(title + " " + detail),
	}
}

// matchesQuery checks if the item matches all (lowercased) search words
func (item *previewItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !strings.Contains(item.searchText, word) {
			return false
		}
	}
	return true
}

// ============================================================================
// Markdown
// ============================================================================

// hardBreaks keeps multi-line fields on separate lines once rendered
func hardBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "  \n")
}

func cardMarkdown(n int, card parser.Card) string {
	b := getBuilder()
	defer putBuilder(b)
	fmt.Fprintf(b, "## Card %d\n\n", n)
	fmt.Fprintf(b, "**Q:** %s\n\n", hardBreaks(card.Front))
	fmt.Fprintf(b, "**A:** %s\n", hardBreaks(card.Back))
	return b.String()
}

func mcqMarkdown(n int, mcq parser.MCQ) string {
	b := getBuilder()
	defer putBuilder(b)
	fmt.Fprintf(b, "## Question %d\n\n%s\n\n", n, hardBreaks(mcq.Question))
	for _, letter := range []string{"A", "B", "C", "D"} {
		opt := mcq.Options.Get(letter)
		if opt == "" {
			continue
		}
		if letter == mcq.Answer {
			fmt.Fprintf(b, "- **%s. %s** ✓\n", letter, hardBreaks(opt))
		} else {
			fmt.Fprintf(b, "- %s. %s\n", letter, hardBreaks(opt))
		}
	}
	if mcq.Explain != "" {
		fmt.Fprintf(b, "\n> %s\n", strings.ReplaceAll(mcq.Explain, "\n", "\n> "))
	}
	return b.String()
}

func errorMarkdown(perr parser.ParseError) string {
	if perr.Line > 0 {
		return fmt.Sprintf("## %s\n\nLine %d: %s\n", perr.Code, perr.Line, perr.Message)
	}
	return fmt.Sprintf("## %s\n\n%s\n", perr.Code, perr.Message)
}

// markdownRenderer caches a glamour renderer for the current pane width
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(style string) *markdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &markdownRenderer{style: style}
}

// render returns md rendered for width, or md itself if glamour fails
func (r *markdownRenderer) render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		r.renderer, r.width = renderer, width
	}

	rendered, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(rendered, "\n")
}
