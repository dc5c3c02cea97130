// Package structured turns unreliable model-produced text into
// schema-conformant records: parse, repair common malformations, apply
// defaults, validate, decode.
package structured

import "regexp"

// Strategy selects which repair pass to attempt when direct JSON parsing
// fails. Different upstream generators fail differently: the resume path
// produces spurious backslash escapes, the research path produces literal
// control characters inside string values.
type Strategy int

const (
	// RepairNone disables repair; parsing failures are terminal.
	RepairNone Strategy = iota
	// RepairEscapes drops invalid backslash escapes, keeping the escaped
	// character literal.
	RepairEscapes
	// RepairControlChars escapes literal newlines, carriage returns and tabs
	// found inside quoted string values.
	RepairControlChars
)

// FixInvalidEscapes scans text character-by-character and removes backslashes
// that do not introduce a valid JSON escape. Valid escapes (including
// \u followed by four hex digits) pass through untouched, so the function is
// a no-op on well-formed input.
func FixInvalidEscapes(text string) string {
	result := make([]byte, 0, len(text))
	for i := 0; i < len(text); {
		if text[i] != '\\' || i+1 >= len(text) {
			result = append(result, text[i])
			i++
			continue
		}

		next := text[i+1]
		switch {
		case isSimpleEscape(next):
			result = append(result, text[i], next)
			i += 2
		case next == 'u' && i+5 < len(text) && isHex(text[i+2:i+6]):
			result = append(result, text[i:i+6]...)
			i += 6
		default:
			// Spurious escape: drop the backslash, keep the character.
			result = append(result, next)
			i += 2
		}
	}
	return string(result)
}

// quotedSpan matches a JSON string literal, treating any backslash pair as a
// unit so valid escapes are never touched. [^"\\] deliberately admits raw
// control characters, which is exactly the malformation being repaired.
var quotedSpan = regexp.MustCompile(`"(?:[^"\\]|\\[\s\S])*"`)

// FixControlChars escapes literal newlines, carriage returns and tabs that
// appear inside quoted string values, leaving everything outside strings and
// all existing escape sequences untouched.
func FixControlChars(text string) string {
	return quotedSpan.ReplaceAllStringFunc(text, func(span string) string {
		result := make([]byte, 0, len(span))
		for i := 0; i < len(span); i++ {
			switch span[i] {
			case '\n':
				result = append(result, '\\', 'n')
			case '\r':
				result = append(result, '\\', 'r')
			case '\t':
				result = append(result, '\\', 't')
			case '\\':
				result = append(result, span[i])
				if i+1 < len(span) {
					result = append(result, span[i+1])
					i++
				}
			default:
				result = append(result, span[i])
			}
		}
		return string(result)
	})
}

// repair applies the selected strategy.
func repair(text string, strategy Strategy) string {
	switch strategy {
	case RepairEscapes:
		return FixInvalidEscapes(text)
	case RepairControlChars:
		return FixControlChars(text)
	default:
		return text
	}
}

func isSimpleEscape(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	}
	return false
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
