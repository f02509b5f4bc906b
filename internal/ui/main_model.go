package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/flashparse/internal/config"
	"github.com/gubarz/flashparse/internal/parser"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Column Config
// ============================================================================

// columnConfig holds display column widths and gaps
type columnConfig struct {
	frontWidth int
	backWidth  int
	gap        int
}

// loadColumnConfig loads column configuration from config, keeping sane
// widths when config was never initialised
func loadColumnConfig() columnConfig {
	cols := columnConfig{
		frontWidth: config.GetColumnFront(),
		backWidth:  config.GetColumnBack(),
		gap:        config.GetColumnGap(),
	}
	if cols.frontWidth <= 0 {
		cols.frontWidth = 40
	}
	if cols.backWidth <= 0 {
		cols.backWidth = 60
	}
	if cols.gap <= 0 {
		cols.gap = 2
	}
	return cols
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Kind Filter
// ============================================================================

// kindFilter restricts the list to one kind of item; tab cycles through them
type kindFilter int

const (
	showAll kindFilter = iota
	showCards
	showMCQs
	showErrors
	kindFilterCount
)

func (f kindFilter) label() string {
	switch f {
	case showCards:
		return "Cards"
	case showMCQs:
		return "MCQs"
	case showErrors:
		return "Errors"
	default:
		return "All"
	}
}

func (f kindFilter) next(step int) kindFilter {
	return kindFilter((int(f) + step + int(kindFilterCount)) % int(kindFilterCount))
}

func (f kindFilter) allows(kind itemKind) bool {
	switch f {
	case showCards:
		return kind == kindCard
	case showMCQs:
		return kind == kindMCQ
	case showErrors:
		return kind == kindError
	default:
		return true
	}
}

// ============================================================================
// Preview Model
// ============================================================================

// maxPreviewLines is the fixed height of the rendered preview pane
const maxPreviewLines = 10

// previewModel is the Bubble Tea model for reviewing a parse result before output
type previewModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool
	accepted  bool

	meta     parser.DeckMeta
	items    []previewItem
	filtered []previewItem
	kind     kindFilter
	cursor   int
	offset   int // viewport scroll offset
	columns  columnConfig
	markdown *markdownRenderer

	counts [3]int // per itemKind
}

// newPreviewModel creates a previewModel for the given result
func newPreviewModel(result parser.Result, previewStyle string) previewModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	items := newPreviewItems(result)

	m := previewModel{
		textInput: ti,
		meta:      result.Meta,
		items:     items,
		filtered:  items,
		columns:   loadColumnConfig(),
		markdown:  newMarkdownRenderer(previewStyle),
	}
	for _, item := range items {
		m.counts[item.kind]++
	}
	return m
}

// Init implements tea.Model
func (m previewModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case filterMsg:
		m.filterItems()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes navigation keys; anything else goes to the filter input
func (m *previewModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit, true
	case "enter":
		m.accepted = true
		m.quitting = true
		return tea.Quit, true
	case "tab":
		m.kind = m.kind.next(1)
		m.filterItems()
	case "shift+tab":
		m.kind = m.kind.next(-1)
		m.filterItems()
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.cursor = 0
		m.adjustOffset()
	case "end", "ctrl+e":
		m.cursor = max(0, len(m.filtered)-1)
		m.adjustOffset()
	default:
		return nil, false
	}
	return nil, true
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *previewModel) moveCursor(delta int) {
	m.cursor += delta
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *previewModel) adjustOffset() {
	viewHeight := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	maxOffset := max(0, len(m.filtered)-viewHeight)
	m.offset = clamp(m.offset, 0, maxOffset)
}

// listHeight is the number of list rows left after the fixed chrome
func (m previewModel) listHeight() int {
	// header + preview + divider + divider + info + input
	return maxInt(maxInt(m.height, 24)-maxPreviewLines-5, 3)
}

// filterItems applies the kind filter and the search query
func (m *previewModel) filterItems() {
	words := strings.Fields(strings.ToLower(m.textInput.Value()))

	if len(words) == 0 && m.kind == showAll {
		m.filtered = m.items
	} else {
		m.filtered = make([]previewItem, 0, len(m.items))
		for i := range m.items {
			if m.kind.allows(m.items[i].kind) && m.items[i].matchesQuery(words) {
				m.filtered = append(m.filtered, m.items[i])
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// selectedItem returns the item under the cursor, if any
func (m previewModel) selectedItem() (previewItem, bool) {
	if m.cursor < len(m.filtered) {
		return m.filtered[m.cursor], true
	}
	return previewItem{}, false
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m previewModel) View() string {
	if m.quitting {
		return ""
	}

	width := maxInt(m.width, 80)
	height := maxInt(m.height, 24)

	header := m.renderHeader(width)
	preview := m.renderPreview(width)
	list := m.renderList(m.listHeight())

	inputLines := 3 // divider + info + input
	used := countLines(header) + countLines(preview) + countLines(list) + inputLines
	padding := maxInt(height-used, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(header)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))

	return b.String()
}

// renderHeader renders the deck title and the kind tabs
func (m previewModel) renderHeader(width int) string {
	b := getBuilder()
	defer putBuilder(b)

	title := m.meta.DeckTitle
	if title == "" {
		title = "Untitled deck"
	}
	b.WriteString(styles.Title.Render(truncateString(title, width/2)))
	b.WriteString("  ")

	for f := showAll; f < kindFilterCount; f++ {
		label := f.label()
		switch f {
		case showCards:
			label = fmt.Sprintf("%s (%d)", label, m.counts[kindCard])
		case showMCQs:
			label = fmt.Sprintf("%s (%d)", label, m.counts[kindMCQ])
		case showErrors:
			label = fmt.Sprintf("%s (%d)", label, m.counts[kindError])
		}
		if f == m.kind {
			b.WriteString(styles.ActiveTab.Render(label))
		} else {
			b.WriteString(styles.InactiveTab.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	return b.String()
}

// renderPreview renders the selected item as markdown in a fixed-height pane
func (m previewModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0

	if item, ok := m.selectedItem(); ok {
		rendered := m.markdown.render(item.markdown, width-4)
		rendered = truncateLines(rendered, maxPreviewLines, 0)
		b.WriteString(rendered)
		b.WriteString("\n")
		lines += countLines(rendered)
	} else if m.meta.DeckDesc != "" {
		desc := truncateLines(m.meta.DeckDesc, maxPreviewLines, 0)
		b.WriteString(styles.Dim.Render(desc))
		b.WriteString("\n")
		lines += countLines(desc)
	}

	// Pad to fixed height
	for lines < maxPreviewLines {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the scrollable list of items
func (m *previewModel) renderList(maxHeight int) string {
	if len(m.filtered) == 0 {
		return styles.Dim.Render("  Nothing to show") + "\n"
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)
	gap := strings.Repeat(" ", m.columns.gap)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor, gap))
		b.WriteString("\n")
	}

	return b.String()
}

// renderListItem renders a single list item
func (m previewModel) renderListItem(item previewItem, selected bool, gap string) string {
	kStyle, tStyle, dStyle := m.getItemStyles(item.kind, selected)

	kind := fmt.Sprintf("%-5s", item.kind.label())
	title := padRight(truncateString(firstLine(item.title), m.columns.frontWidth), m.columns.frontWidth)
	detail := truncateString(firstLine(item.detail), m.calculateDetailWidth())

	gapStr := gap
	if selected {
		gapStr = styles.Selected.Render(gap)
	}

	line := kStyle.Render(kind) + gapStr + tStyle.Render(title) + gapStr + dStyle.Render(detail)
	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// getItemStyles returns the appropriate styles based on kind and selection state
func (m previewModel) getItemStyles(kind itemKind, selected bool) (kindStyle, title, detail lipgloss.Style) {
	kindStyle, title, detail = styles.Dim, styles.Front, styles.Back
	if kind == kindError {
		title, detail = styles.Error, styles.Dim
	}
	if selected {
		kindStyle = styles.WithSelection(kindStyle)
		title = styles.WithSelection(title)
		detail = styles.WithSelection(detail)
	}
	return
}

// calculateDetailWidth returns the available width for the detail column
func (m previewModel) calculateDetailWidth() int {
	maxDetail := m.columns.backWidth
	if m.width > 0 {
		usedWidth := 2 + 5 + m.columns.gap*2 + m.columns.frontWidth
		if available := m.width - usedWidth; available > 0 && available < maxDetail {
			maxDetail = available
		}
	}
	return maxDetail
}

// renderInput renders the input section at the bottom
func (m previewModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Tab kind"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Enter accept"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC cancel"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run Preview
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty so the preview still works when stdin is the document
// and stdout is piped
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	out = os.Stdout
	if fileInfo, _ := os.Stdout.Stat(); fileInfo == nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		// stdout is NOT a terminal - we're being captured
		tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			out = tty
			closers = append(closers, func() { tty.Close() })
		}
		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))
	}

	in = os.Stdin
	if fileInfo, _ := os.Stdin.Stat(); fileInfo == nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		// stdin carried the document, read keys from the terminal
		tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err == nil {
			in = tty
			closers = append(closers, func() { tty.Close() })
		}
	}

	return in, out, func() {
		for _, c := range closers {
			c()
		}
	}
}

// RunPreview shows result in an interactive list and reports whether the
// user accepted it (enter) rather than cancelling (esc / ctrl+c)
func RunPreview(result parser.Result) (bool, error) {
	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()
	RefreshStyles() // Refresh after getTTY sets up the renderer

	m := newPreviewModel(result, config.GetPreviewStyle())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	return finalModel.(previewModel).accepted, nil
}

// ============================================================================
// Helpers
// ============================================================================

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// countLines counts rendered lines, treating a trailing newline as a terminator
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// scrollWindow computes the visible range for a scrolling list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	// Ensure offset keeps cursor visible (final adjustment)
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString shortens s to maxLen runes, ending in "..."
func truncateString(s string, maxLen int) string {
	if maxLen <= 3 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

// truncateLines keeps at most maxLines lines and, when maxLen > 0, maxLen runes
func truncateLines(text string, maxLines int, maxLen int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > maxLines {
		text = strings.Join(lines[:maxLines], "\n") + "..."
	}
	return truncateString(text, maxLen)
}

// padRight pads s with spaces to width runes
func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// firstLine returns the first line of a string
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
