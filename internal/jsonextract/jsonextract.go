// Package jsonextract pulls the first balanced JSON value out of free text.
//
// LLM responses frequently wrap JSON in markdown code fences or surround it
// with prose. Instead of regexing at every call site, adapters funnel raw
// response content through First and parse the result.
package jsonextract

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when the input contains no JSON object or array.
var ErrNoJSON = errors.New("no JSON value found in text")

// ErrUnbalanced is returned when a JSON value starts but never closes.
var ErrUnbalanced = errors.New("unbalanced JSON value in text")

// First returns the first balanced {...} or [...] substring of text.
// String literals and escape sequences are honored, so braces inside
// strings do not affect balancing. Markdown code fences are ignored
// because scanning starts at the first structural character.
func First(text string) (string, error) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrUnbalanced
}
