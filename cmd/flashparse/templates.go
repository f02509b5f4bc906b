package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const cardTemplate = `@CARD
Q: Hello
A: Xin chào
`

const mcqTemplate = `@MCQ
Q: What does "apple" mean?
A: Quả chuối
B: Quả táo
C: Quả cam
D: Quả nho
ANSWER: B
EXPLAIN: "Apple" nghĩa là quả táo
`

const deckTemplate = `#DECK Vocabulary Set
#DESC Common English words
for beginners

` + cardTemplate + `
` + mcqTemplate

var templates = map[string]string{
	"card": cardTemplate,
	"mcq":  mcqTemplate,
	"deck": deckTemplate,
}

func runTemplate(cmd *cobra.Command, args []string) error {
	name := "deck"
	if len(args) > 0 {
		name = args[0]
	}

	tmpl, ok := templates[name]
	if !ok {
		return fmt.Errorf("unknown template: %s (supported: card, mcq, deck)", name)
	}
	fmt.Fprint(cmd.OutOrStdout(), tmpl)
	return nil
}
