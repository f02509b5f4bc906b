package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/flashparse/internal/config"
)

// palette is the set of colors the preview is drawn with
type palette struct {
	front, back, err, dim, border, cursor, selected lipgloss.Color
}

var defaultPalette = palette{
	front:    "6",
	back:     "2",
	err:      "196",
	dim:      "241",
	border:   "240",
	cursor:   "212",
	selected: "236",
}

// StyleManager holds the styles the preview list, header and footer use
type StyleManager struct {
	Front    lipgloss.Style // card front, MCQ question
	Back     lipgloss.Style // card back, correct option
	Error    lipgloss.Style
	Dim      lipgloss.Style // kind column, hints, error details
	Selected lipgloss.Style
	Cursor   lipgloss.Style

	Title       lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Divider     lipgloss.Style

	SelectedBg lipgloss.Color
}

func newStyleManager(p palette) *StyleManager {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return &StyleManager{
		Front:       fg(p.front),
		Back:        fg(p.back),
		Error:       fg(p.err),
		Dim:         fg(p.dim),
		Selected:    lipgloss.NewStyle().Background(p.selected),
		Cursor:      fg(p.cursor),
		Title:       fg(p.front).Bold(true),
		ActiveTab:   fg(p.cursor).Bold(true).Underline(true),
		InactiveTab: fg(p.dim),
		Divider:     fg(p.border),
		SelectedBg:  p.selected,
	}
}

// DefaultStyles returns the styles used before config is loaded
func DefaultStyles() *StyleManager {
	return newStyleManager(defaultPalette)
}

// LoadFromConfig rebuilds every style from the configured colors
func (s *StyleManager) LoadFromConfig() {
	*s = *newStyleManager(palette{
		front:    parseANSIColor(config.GetColorFront()),
		back:     parseANSIColor(config.GetColorBack()),
		err:      parseANSIColor(config.GetColorError()),
		dim:      lipgloss.Color(config.GetColorDim()),
		border:   lipgloss.Color(config.GetColorBorder()),
		cursor:   lipgloss.Color(config.GetColorCursor()),
		selected: lipgloss.Color(config.GetColorSelected()),
	})
}

// WithSelection returns style with the selected row background
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// parseANSIColor maps SGR foreground codes (30-37, 90-97) to the 16 basic
// colors; anything else is passed to lipgloss as-is.
func parseANSIColor(code string) lipgloss.Color {
	n, err := strconv.Atoi(code)
	if err != nil {
		return lipgloss.Color(code)
	}
	switch {
	case n >= 30 && n <= 37:
		return lipgloss.Color(strconv.Itoa(n - 30))
	case n >= 90 && n <= 97:
		return lipgloss.Color(strconv.Itoa(n - 90 + 8))
	}
	return lipgloss.Color(code)
}

var styles = DefaultStyles()

// RefreshStyles reloads the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
