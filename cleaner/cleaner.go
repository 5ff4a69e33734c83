// Package cleaner strips markdown artifacts and conversational preambles
// from model responses before they are written out as source files.
package cleaner

import (
	"regexp"
	"strings"
)

var (
	fenceOpen    = regexp.MustCompile("```[a-zA-Z]*\\s*")
	fenceClose   = regexp.MustCompile("\\s*```$")
	codeBlock    = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?\\s*(.*?)```")
	jsonBlock    = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	braceBalance = regexp.MustCompile(`[{}]`)
)

// preambles the model commonly prefixes a response with.
var preambles = []string{
	"Here's the code:",
	"Here is the code:",
	"Here's the Java code:",
	"Here is the Java code:",
	"Sure, here's",
	"Certainly,",
}

// Clean removes markdown code fences and known preambles from a raw response.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	cleaned := fenceOpen.ReplaceAllString(raw, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = removePreamble(cleaned)

	return cleaned
}

func removePreamble(code string) string {
	for _, preamble := range preambles {
		if strings.HasPrefix(code, preamble) {
			code = strings.TrimSpace(strings.TrimPrefix(code, preamble))
			code = strings.TrimSpace(strings.TrimPrefix(code, ":"))
		}
	}
	return code
}

// ExtractCode returns the first fenced code block of a response that may
// contain surrounding explanation, or the cleaned response when no block is
// present.
func ExtractCode(response string) string {
	if m := codeBlock.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return Clean(response)
}

// ExtractJSON returns the JSON payload of a response, handling both fenced
// and bare JSON.
func ExtractJSON(response string) string {
	if m := jsonBlock.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ValidJavaSource reports whether cleaned code plausibly is a complete Java
// compilation unit.
func ValidJavaSource(code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	if !strings.Contains(code, "package ") {
		return false
	}
	if !strings.Contains(code, "class ") && !strings.Contains(code, "interface ") {
		return false
	}
	return BalancedBraces(code)
}

// BalancedBraces reports whether the code has matching curly brace counts.
func BalancedBraces(code string) bool {
	opening, closing := 0, 0
	for _, m := range braceBalance.FindAllString(code, -1) {
		if m == "{" {
			opening++
		} else {
			closing++
		}
	}
	return opening == closing
}
