// Package source turns a file or stdin into parser input text.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sentinel errors returned (wrapped) by Load
var (
	ErrTooLarge          = errors.New("input too large")
	ErrNotText           = errors.New("input is not text")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// StdinName is the Document name used for standard input
const StdinName = "stdin"

// Document is decoded input ready for parsing
type Document struct {
	Name string // file path or StdinName
	Text string // UTF-8, byte order mark removed
	Size int    // raw byte count before decoding
}

// binaryExtensions need text extraction before they can be parsed
var binaryExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// binary signatures for the same formats arriving on stdin
var binaryMagic = [][]byte{
	[]byte("%PDF-"),
	[]byte("PK\x03\x04"),
	[]byte("\xD0\xCF\x11\xE0"),
}

var replacementChar = []byte("\uFFFD")

// IsStdin reports whether path refers to standard input
func IsStdin(path string) bool {
	return path == "" || path == "-"
}

// Load reads path (or stdin when path is "" or "-") up to maxBytes and
// decodes it to UTF-8. A UTF-8 BOM is stripped and UTF-16 input with a BOM
// is converted. maxBytes <= 0 disables the cap.
func Load(path string, stdin io.Reader, maxBytes int64) (Document, error) {
	if IsStdin(path) {
		return read(StdinName, stdin, maxBytes)
	}

	if ext := strings.ToLower(filepath.Ext(path)); binaryExtensions[ext] {
		return Document{}, fmt.Errorf("%s: %w: %s files must be converted to text first", path, ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return read(path, f, maxBytes)
}

func read(name string, r io.Reader, maxBytes int64) (Document, error) {
	if r == nil {
		return Document{}, fmt.Errorf("%s: no reader", name)
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return Document{}, fmt.Errorf("%s: %w: limit is %d bytes", name, ErrTooLarge, maxBytes)
	}

	for _, magic := range binaryMagic {
		if bytes.HasPrefix(raw, magic) {
			return Document{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
		}
	}

	text, err := decode(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", name, err)
	}

	return Document{Name: name, Text: text, Size: len(raw)}, nil
}

// decode applies BOM sniffing (UTF-8, UTF-16LE, UTF-16BE) and falls back to
// UTF-8. The UTF-8 decoder substitutes U+FFFD for invalid bytes, so new
// replacement characters mean the input was not valid text.
func decode(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotText, err)
	}
	if bytes.IndexByte(decoded, 0) >= 0 {
		return "", fmt.Errorf("%w: contains NUL bytes", ErrNotText)
	}
	if bytes.Count(decoded, replacementChar) > bytes.Count(raw, replacementChar) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrNotText)
	}
	return string(decoded), nil
}
