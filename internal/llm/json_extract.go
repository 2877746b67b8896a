package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hireloop/questgen/internal/types"
)

// codeBlockPattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON extracts JSON from an LLM response that may be wrapped in
// markdown or surrounded by commentary. Priority:
//  1. JSON inside ```json ... ``` or ``` ... ``` code blocks
//  2. Raw JSON array [...] or object {...} in the response
//
// Returns the extracted JSON string or an error classified as
// ErrResponseParseFailed.
func ExtractJSON(response string) (string, error) {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return "", types.NewRetryableError(ErrEmptyResponse, "response is empty")
	}

	if jsonStr, found := extractFromCodeBlock(trimmed); found {
		return jsonStr, nil
	}

	if jsonStr, found := extractRawJSON(trimmed); found {
		return jsonStr, nil
	}

	return "", types.NewError(ErrResponseParseFailed, "no valid JSON found in response")
}

// extractFromCodeBlock finds JSON in markdown code blocks.
func extractFromCodeBlock(response string) (string, bool) {
	matches := codeBlockPattern.FindAllStringSubmatch(response, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		// Accept json or untagged blocks; skip blocks tagged as other languages.
		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			if isValidJSON(content) {
				return content, true
			}
		}
	}

	return "", false
}

// extractRawJSON finds a JSON array or object in response text that is not
// wrapped in code blocks. Arrays are preferred when both appear, since the
// generation contract asks for an array.
func extractRawJSON(response string) (string, bool) {
	startArr := strings.Index(response, "[")
	startObj := strings.Index(response, "{")

	start := -1
	endChar := byte(']')
	if startArr >= 0 {
		start = startArr
	} else if startObj >= 0 {
		start = startObj
		endChar = '}'
	}

	if start < 0 {
		return "", false
	}

	jsonStr := findMatchingBracket(response[start:], endChar)
	if jsonStr != "" && isValidJSON(jsonStr) {
		return jsonStr, true
	}

	return "", false
}

// findMatchingBracket returns the prefix of content up to the bracket that
// balances the opening one, accounting for nesting and string literals.
func findMatchingBracket(content string, endChar byte) string {
	if len(content) == 0 {
		return ""
	}

	openChar := content[0]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case openChar:
			depth++
		case endChar:
			depth--
			if depth == 0 {
				return content[:i+1]
			}
		}
	}

	return ""
}

// isValidJSON reports whether s parses as JSON.
func isValidJSON(s string) bool {
	return json.Valid([]byte(s))
}
