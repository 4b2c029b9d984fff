package llm

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
)

// ExtractJSON pulls the first top-level JSON object out of an LLM response,
// repairing the mistakes models commonly make: markdown fences around the
// payload, trailing commas, // comments, and stray control characters.
func ExtractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return RepairJSON(content[start : end+1]), nil
}

// RepairJSON fixes common LLM JSON errors before parsing.
func RepairJSON(text string) string {
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = lineCommentRe.ReplaceAllString(text, "")

	// Strip control characters that break parsing, keeping newlines and tabs.
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
