package parser

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type messageKey int

const (
	msgIncompleteCard messageKey = iota
	msgIncompleteMCQ
	msgMissingAnswer
	msgInvalidAnswer
	msgAnswerNotFound
	msgNoContent

	nameFront
	nameBack
	nameQuestion
	nameOption
	joinAnd
)

// catalog maps message keys to fmt format strings for one language
type catalog map[messageKey]string

var vietnamese = catalog{
	msgIncompleteCard: "Thẻ thiếu %s",
	msgIncompleteMCQ:  "Câu hỏi trắc nghiệm thiếu %s",
	msgMissingAnswer:  "Câu hỏi trắc nghiệm thiếu đáp án đúng (ANSWER)",
	msgInvalidAnswer:  "Đáp án \"%s\" không hợp lệ, chỉ chấp nhận A, B, C hoặc D",
	msgAnswerNotFound: "Đáp án %s không có lựa chọn tương ứng",
	msgNoContent:      "Không tìm thấy nội dung thẻ nào trong văn bản",
	nameFront:         "câu hỏi (Q)",
	nameBack:          "đáp án (A)",
	nameQuestion:      "nội dung câu hỏi (Q)",
	nameOption:        "lựa chọn %s",
	joinAnd:           " và ",
}

var english = catalog{
	msgIncompleteCard: "Card is missing %s",
	msgIncompleteMCQ:  "Multiple-choice question is missing %s",
	msgMissingAnswer:  "Multiple-choice question has no correct answer (ANSWER)",
	msgInvalidAnswer:  "Answer \"%s\" is invalid, expected A, B, C or D",
	msgAnswerNotFound: "Answer %s has no matching option",
	msgNoContent:      "No flashcard content found in the text",
	nameFront:         "the question (Q)",
	nameBack:          "the answer (A)",
	nameQuestion:      "the question text (Q)",
	nameOption:        "option %s",
	joinAnd:           " and ",
}

// supportedLocales lists catalogs in matcher order; the first is the fallback
var supportedLocales = []language.Tag{language.Vietnamese, language.English}

var catalogs = []catalog{vietnamese, english}

var localeMatcher = language.NewMatcher(supportedLocales)

// catalogFor picks the catalog closest to the given BCP 47 tag.
// Empty or malformed tags get the default (Vietnamese) catalog.
func catalogFor(locale string) catalog {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return catalogs[0]
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return catalogs[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return catalogs[0]
	}
	return catalogs[idx]
}

func (c catalog) format(key messageKey, args ...any) string {
	return fmt.Sprintf(c[key], args...)
}

// list joins field names with the localized conjunction
func (c catalog) list(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + c[joinAnd] + parts[len(parts)-1]
}
