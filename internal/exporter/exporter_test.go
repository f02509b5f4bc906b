package exporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gubarz/flashparse/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) Copy(text string) error {
	c.text = text
	return c.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

const sample = `#DECK Basics
@CARD
Q: Hello
A: Xin chào

@MCQ
Q: 2+2?
A: 3
B: 4
C: 5
D: 6
ANSWER: B
EXPLAIN: arithmetic`

func newTestExporter(out *bytes.Buffer) *Exporter {
	return NewExporter(out).WithIDGenerator(sequentialIDs())
}

func TestParseOutputMode(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputMode
		wantErr bool
	}{
		{input: "print", want: OutputPrint},
		{input: "JSON", want: OutputJSON},
		{input: " yaml ", want: OutputYAML},
		{input: "copy", want: OutputCopy},
		{input: "exec", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutput_Print(t *testing.T) {
	var out bytes.Buffer
	result := parser.ParseContent(sample)

	require.NoError(t, newTestExporter(&out).Output(result, OutputPrint))

	assert.Equal(t, parser.Format(result), out.String())
	assert.Equal(t, result, parser.ParseContent(out.String()))
}

func TestOutput_Copy(t *testing.T) {
	var out bytes.Buffer
	clip := &fakeClipboard{}
	result := parser.ParseContent(sample)

	require.NoError(t, newTestExporter(&out).WithClipboard(clip).Output(result, OutputCopy))

	assert.Equal(t, parser.Format(result), clip.text)
	assert.Empty(t, out.String())
}

func TestOutput_CopyFailure(t *testing.T) {
	var out bytes.Buffer
	clip := &fakeClipboard{err: errors.New("no display")}

	err := newTestExporter(&out).WithClipboard(clip).Output(parser.ParseContent(sample), OutputCopy)

	assert.ErrorContains(t, err, "no display")
}

func TestOutput_JSON(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, newTestExporter(&out).Output(parser.ParseContent(sample), OutputJSON))

	var got Export
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "id-1", got.ID)
	require.NotNil(t, got.Deck)
	assert.Equal(t, "Basics", got.Deck.Title)
	assert.Equal(t, []CardExport{{ID: "id-2", Front: "Hello", Back: "Xin chào"}}, got.Cards)
	require.Len(t, got.MCQs, 1)
	assert.Equal(t, "id-3", got.MCQs[0].ID)
	assert.Equal(t, "B", got.MCQs[0].Answer)
	assert.Equal(t, "4", got.MCQs[0].Options.B)
	assert.Empty(t, got.Errors)

	// empty lists render as [] and the option letters keep their order
	assert.Contains(t, out.String(), `"errors": []`)
	assert.Regexp(t, `(?s)"A": "3",\s*"B": "4",\s*"C": "5",\s*"D": "6"`, out.String())
}

func TestOutput_YAML(t *testing.T) {
	var out bytes.Buffer
	result := parser.ParseHeuristics("Apple - Quả táo\nnot a card")

	require.NoError(t, newTestExporter(&out).Output(result, OutputYAML))

	var got Export
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Nil(t, got.Deck)
	assert.Equal(t, []CardExport{{ID: "id-2", Front: "Apple", Back: "Quả táo"}}, got.Cards)
	assert.NotContains(t, out.String(), "deck:")
}

func TestOutput_UnknownMode(t *testing.T) {
	var out bytes.Buffer

	err := newTestExporter(&out).Output(parser.Result{}, OutputMode("exec"))

	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestBuild_NilErrorsBecomeEmpty(t *testing.T) {
	export := NewExporter(nil).Build(parser.Result{})

	assert.NotNil(t, export.Errors)
	assert.NotNil(t, export.Cards)
	assert.NotNil(t, export.MCQs)
	assert.Len(t, export.ID, 36)
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	result := parser.ParseContent("@CARD\nQ: only front\n\n@CARD\nQ: ok\nA: ok")

	require.NoError(t, WriteReport(&out, result))

	assert.Equal(t, "line 1: [INCOMPLETE_CARD] Thẻ thiếu đáp án (A)\n1 cards, 0 mcqs, 1 errors\n", out.String())
}

func TestWriteReport_NoLine(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteReport(&out, parser.ParseHeuristics("")))

	assert.Contains(t, out.String(), "[NO_CONTENT_FOUND]")
	assert.NotContains(t, out.String(), "line ")
}
