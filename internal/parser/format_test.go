package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "", Format(newResult()))
}

func TestFormat_Layout(t *testing.T) {
	r := Result{
		Meta:  DeckMeta{DeckTitle: "Deck"},
		Cards: []Card{{Front: "f", Back: "b"}},
		MCQs: []MCQ{{
			Question: "q",
			Options:  Options{A: "1", B: "2"},
			Answer:   "B",
		}},
	}

	want := "#DECK Deck\n\n@CARD\nQ: f\nA: b\n\n@MCQ\nQ: q\nA: 1\nB: 2\nANSWER: B\n"
	assert.Equal(t, want, Format(r))
}

func TestFormat_RoundTrip(t *testing.T) {
	original := ParseContent(mixedDocument)
	require.Empty(t, original.Errors)

	again := ParseContent(Format(original))

	assert.Equal(t, original, again)
}

func TestFormat_UpgradesHeuristicResult(t *testing.T) {
	loose := ParseHeuristics("Apple - Quả táo\nBanana - Quả chuối\nOrange: Quả cam")

	structured := ParseContent(Format(loose))

	require.Empty(t, structured.Errors)
	assert.Equal(t, loose.Cards, structured.Cards)
}
