package parser

import "github.com/rs/zerolog"

// Parser turns study-set text into cards and multiple-choice questions.
// A Parser holds only configuration, so one value can serve concurrent callers.
type Parser struct {
	msgs catalog
	log  zerolog.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLocale selects the language of error messages (BCP 47 tag, e.g. "vi", "en-US")
func WithLocale(locale string) Option {
	return func(p *Parser) {
		p.msgs = catalogFor(locale)
	}
}

// WithLogger attaches a logger for debug tracing of parse decisions
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// NewParser creates a parser with Vietnamese messages and no logging
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		msgs: catalogFor(""),
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// ParseContent parses structured text with the default parser
func ParseContent(text string) Result {
	return defaultParser.ParseContent(text)
}

// ParseWithFallback parses text with the default parser, falling back to heuristics
func ParseWithFallback(text string) Result {
	return defaultParser.ParseWithFallback(text)
}

// ParseHeuristics runs only the heuristic strategies with the default parser
func ParseHeuristics(text string) Result {
	return defaultParser.ParseHeuristics(text)
}
