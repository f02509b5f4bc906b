package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gubarz/flashparse/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previewDocument = `#DECK Vocabulary Set
@CARD
Q: Apple
A: Quả táo

@CARD
Q: Banana
A: Quả chuối

@MCQ
Q: What does "book" mean?
A: Cuốn sách
B: Cái bàn
C: Cái ghế
D: Cây bút
ANSWER: A
EXPLAIN: "Book" nghĩa là cuốn sách

@CARD
Q: missing back`

func newTestModel(t *testing.T) previewModel {
	t.Helper()
	result := parser.ParseContent(previewDocument)
	require.Len(t, result.Cards, 2)
	require.Len(t, result.MCQs, 1)
	require.Len(t, result.Errors, 1)
	return newPreviewModel(result, "notty")
}

func update(t *testing.T, m previewModel, msg tea.Msg) (previewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(previewModel), cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewPreviewItems_Order(t *testing.T) {
	m := newTestModel(t)

	require.Len(t, m.items, 4)
	assert.Equal(t, kindCard, m.items[0].kind)
	assert.Equal(t, "Apple", m.items[0].title)
	assert.Equal(t, kindMCQ, m.items[2].kind)
	assert.Equal(t, "A. Cuốn sách", m.items[2].detail)
	assert.Equal(t, kindError, m.items[3].kind)
	assert.Equal(t, string(parser.CodeIncompleteCard), m.items[3].title)
	assert.Equal(t, [3]int{2, 1, 1}, m.counts)
}

func TestPreviewModel_TabCyclesKinds(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, showCards, m.kind)
	assert.Len(t, m.filtered, 2)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, showMCQs, m.kind)
	assert.Len(t, m.filtered, 1)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, showErrors, m.kind)
	assert.Len(t, m.filtered, 1)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, showAll, m.kind)
	assert.Len(t, m.filtered, 4)

	m, _ = update(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, showErrors, m.kind)
}

func TestPreviewModel_TabDoesNotReachInput(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, key(tea.KeyTab))

	assert.Empty(t, m.textInput.Value())
}

func TestPreviewModel_QueryFilter(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("CHUỐI")})
	assert.NotNil(t, cmd, "typing schedules a debounced filter")
	assert.Len(t, m.filtered, 4, "filter waits for the debounce tick")

	m, _ = update(t, m, filterMsg{})
	require.Len(t, m.filtered, 1)
	assert.Equal(t, "Banana", m.filtered[0].title)
}

func TestPreviewModel_QueryAndKindCombine(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("quả")
	m.kind = showMCQs

	m.filterItems()

	assert.Empty(t, m.filtered)
	assert.Equal(t, 0, m.cursor)
}

func TestPreviewModel_CursorClamps(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, key(tea.KeyUp))
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, key(tea.KeyDown))
	}
	assert.Equal(t, 3, m.cursor)

	m, _ = update(t, m, key(tea.KeyHome))
	assert.Equal(t, 0, m.cursor)

	m, _ = update(t, m, key(tea.KeyEnd))
	assert.Equal(t, 3, m.cursor)

	// narrowing the list pulls the cursor back in range
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, 1, m.cursor)
}

func TestPreviewModel_EnterAccepts(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, key(tea.KeyEnter))

	assert.True(t, m.accepted)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPreviewModel_EscCancels(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(t)

		m, cmd := update(t, m, key(k))

		assert.False(t, m.accepted)
		assert.True(t, m.quitting)
		require.NotNil(t, cmd)
	}
}

func TestPreviewModel_View(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()

	assert.Contains(t, view, "Vocabulary Set")
	assert.Contains(t, view, "Cards (2)")
	assert.Contains(t, view, "Errors (1)")
	assert.Contains(t, view, "Banana")
	assert.Contains(t, view, "4/4")
	assert.Equal(t, 30, strings.Count(view, "\n")+1)
}

func TestPreviewModel_ViewEmptyAfterQuit(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, key(tea.KeyEsc))

	assert.Empty(t, m.View())
}

func TestMarkdown(t *testing.T) {
	result := parser.ParseContent(previewDocument)

	card := cardMarkdown(1, result.Cards[0])
	assert.Contains(t, card, "## Card 1")
	assert.Contains(t, card, "**A:** Quả táo")

	mcq := mcqMarkdown(1, result.MCQs[0])
	assert.Contains(t, mcq, "- **A. Cuốn sách** ✓")
	assert.Contains(t, mcq, "- B. Cái bàn")
	assert.Contains(t, mcq, `> "Book" nghĩa là cuốn sách`)

	perr := errorMarkdown(result.Errors[0])
	assert.Contains(t, perr, "Line 19")
}

func TestMarkdownRenderer(t *testing.T) {
	r := newMarkdownRenderer("notty")

	out := r.render("## Card 1\n\n**Q:** Apple", 60)

	assert.Contains(t, out, "Card 1")
	assert.Contains(t, out, "Apple")
	assert.Empty(t, r.render("   ", 60))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Tiế...", truncateString("Tiếng Việt", 6))
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "a\nb...", truncateLines("a\nb\nc", 2, 0))
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, 2, countLines("a\nb\n"))
	assert.Equal(t, 2, countLines("a\nb"))
	assert.Equal(t, 0, countLines(""))

	offset := 0
	start, end := scrollWindow(7, 10, 3, &offset)
	assert.Equal(t, 5, start)
	assert.Equal(t, 8, end)
}
