package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/gubarz/flashparse/internal/parser"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using the platform clipboard
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		// No clipboard tool found, just print
		_, err := io.WriteString(c.fallback, text)
		return err
	}
	return clipboard.WriteAll(text)
}

// ============================================================================
// Output Modes
// ============================================================================

// OutputMode represents how a parse result is emitted
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputJSON  OutputMode = "json"
	OutputYAML  OutputMode = "yaml"
	OutputCopy  OutputMode = "copy"
)

// ErrUnknownMode is returned for an output mode this package cannot emit
var ErrUnknownMode = errors.New("unknown output mode")

// ParseOutputMode converts a user-supplied string into an OutputMode
func ParseOutputMode(s string) (OutputMode, error) {
	switch mode := OutputMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case OutputPrint, OutputJSON, OutputYAML, OutputCopy:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ============================================================================
// Exporter
// ============================================================================

// Exporter writes parse results to stdout or the clipboard
type Exporter struct {
	out       io.Writer
	clipboard Clipboard
	newID     func() string
	log       zerolog.Logger
}

// NewExporter creates an exporter writing to out
func NewExporter(out io.Writer) *Exporter {
	return &Exporter{
		out:       out,
		clipboard: &systemClipboard{fallback: out},
		newID:     uuid.NewString,
		log:       zerolog.Nop(),
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Exporter) WithClipboard(c Clipboard) *Exporter {
	e.clipboard = c
	return e
}

// WithIDGenerator replaces the uuid generator used for export ids
func (e *Exporter) WithIDGenerator(gen func() string) *Exporter {
	e.newID = gen
	return e
}

// WithLogger attaches a logger
func (e *Exporter) WithLogger(log zerolog.Logger) *Exporter {
	e.log = log
	return e
}

// Output emits result in the given mode
func (e *Exporter) Output(result parser.Result, mode OutputMode) error {
	e.log.Debug().Str("mode", string(mode)).
		Int("cards", len(result.Cards)).
		Int("mcqs", len(result.MCQs)).
		Msg("exporting result")

	switch mode {
	case OutputPrint:
		_, err := io.WriteString(e.out, parser.Format(result))
		return err
	case OutputCopy:
		if err := e.clipboard.Copy(parser.Format(result)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		e.log.Info().Msg("copied structured text to clipboard")
		return nil
	case OutputJSON:
		data, err := json.MarshalIndent(e.Build(result), "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintf(e.out, "%s\n", data)
		return err
	case OutputYAML:
		data, err := yaml.Marshal(e.Build(result))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = e.out.Write(data)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// ============================================================================
// Report
// ============================================================================

// WriteReport prints one line per parse error followed by a summary line
func WriteReport(w io.Writer, result parser.Result) error {
	for _, perr := range result.Errors {
		if _, err := fmt.Fprintln(w, perr.Error()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d cards, %d mcqs, %d errors\n",
		len(result.Cards), len(result.MCQs), len(result.Errors))
	return err
}
