package parser

import "strings"

// sourceLine is a normalized line together with its line number in the raw input
type sourceLine struct {
	text string
	num  int
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize unifies line endings to \n, trims every line and collapses runs of
// blank lines to a single blank line. It never fails; "" maps to "".
func Normalize(raw string) string {
	lines := normalizeLines(raw)
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.text)
	}
	return b.String()
}

// normalizeLines performs the Normalize pass but keeps the raw line number of
// every surviving line so errors can point back at the user's file.
func normalizeLines(raw string) []sourceLine {
	if raw == "" {
		return nil
	}

	parts := strings.Split(lineEndings.Replace(raw), "\n")
	lines := make([]sourceLine, 0, len(parts))
	prevBlank := false
	for i, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			if prevBlank {
				continue
			}
			prevBlank = true
		} else {
			prevBlank = false
		}
		lines = append(lines, sourceLine{text: text, num: i + 1})
	}
	return lines
}
