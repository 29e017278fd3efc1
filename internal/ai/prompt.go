package ai

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReplyTargetChars is the length the prompt asks the model to stay under.
const ReplyTargetChars = 200

const promptTemplate = "Answer the following question or statement directly and concisely, " +
	"without any reasoning, explanation, or <think> tags. " +
	"Format the response as 'Answer: [your concise answer]' and keep it under %d characters: %s"

var (
	thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	answerRe     = regexp.MustCompile(`(?i)Answer:`)
)

// BuildPrompt wraps the user's words into the fixed instruction template.
func BuildPrompt(userText string) string {
	return fmt.Sprintf(promptTemplate, ReplyTargetChars, strings.TrimSpace(userText))
}

// StripReasoning removes every <think>...</think> block, across newlines.
func StripReasoning(raw string) string {
	return strings.TrimSpace(thinkBlockRe.ReplaceAllString(raw, ""))
}

// ExtractAnswer cleans raw model output in two steps: reasoning blocks are
// dropped, then the text after the first "Answer:" marker (any case) is
// taken. Without a marker, or with nothing after it, the whole cleaned text
// is returned and markerFound is false.
func ExtractAnswer(raw string) (text string, markerFound bool) {
	cleaned := StripReasoning(strings.TrimSpace(raw))

	loc := answerRe.FindStringIndex(cleaned)
	if loc == nil {
		return cleaned, false
	}

	// берём только строку после маркера: дальше модель обычно дописывает пояснения
	rest := strings.TrimLeftFunc(cleaned[loc[1]:], unicode.IsSpace)
	if rest == "" {
		// маркер без текста после него не считается ответом
		return cleaned, false
	}
	line, _, _ := strings.Cut(rest, "\n")
	return strings.TrimSpace(line), true
}

// Truncate cuts text to at most max runes, on a word boundary when one
// exists. max <= 0 disables it.
func Truncate(text string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text, false
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if !unicode.IsSpace(runes[max]) {
		if i := strings.LastIndexAny(cut, " \t\n"); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(strings.TrimSpace(cut), ",;:-"), true
}
