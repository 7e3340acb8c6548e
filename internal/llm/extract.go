package llm

import (
	"errors"
	"fmt"
)

var ErrNoJSON = errors.New("no JSON found in model response")

type blob struct {
	start   int
	opening byte
	text    string
}

// ExtractFirstJSONBlob pulls the first complete JSON value out of
// free-form model output. Arrays win over objects regardless of
// position, since the expected payload is an array and objects before
// it are usually prose artifacts.
func ExtractFirstJSONBlob(text string) (string, error) {
	if text == "" {
		return "", ErrNoJSON
	}

	var candidates []blob
	for i := 0; i < len(text); i++ {
		char := text[i]
		if char != '[' && char != '{' {
			continue
		}
		matched, end, err := matchBalanced(text, i)
		if err != nil {
			continue
		}
		candidates = append(candidates, blob{start: i, opening: char, text: matched})
		i = end
	}

	if len(candidates) == 0 {
		return "", ErrNoJSON
	}
	for _, candidate := range candidates {
		if candidate.opening == '[' {
			return candidate.text, nil
		}
	}
	return candidates[0].text, nil
}

// matchBalanced scans the balanced bracket run starting at start,
// honoring JSON string literals and escapes.
func matchBalanced(text string, start int) (string, int, error) {
	closerFor := map[byte]byte{'[': ']', '{': '}'}
	closer, ok := closerFor[text[start]]
	if !ok {
		return "", 0, fmt.Errorf("invalid JSON start character %q", text[start])
	}

	expected := []byte{closer}
	inString := false
	escape := false

	for i := start + 1; i < len(text); i++ {
		char := text[i]
		if inString {
			switch {
			case escape:
				escape = false
			case char == '\\':
				escape = true
			case char == '"':
				inString = false
			}
			continue
		}

		switch char {
		case '"':
			inString = true
		case '[', '{':
			expected = append(expected, closerFor[char])
		case ']', '}':
			if len(expected) == 0 || char != expected[len(expected)-1] {
				return "", 0, errors.New("mismatched JSON braces")
			}
			expected = expected[:len(expected)-1]
			if len(expected) == 0 {
				return text[start : i+1], i, nil
			}
		}
	}
	return "", 0, errors.New("unterminated JSON blob")
}
