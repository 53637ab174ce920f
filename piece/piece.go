// FILE: piece/piece.go

// Package piece validates piece identifiers.
//
// An identifier is a single ASCII letter, optionally preceded by an
// enhancement marker '+' or a diminishment marker '-', and optionally
// followed by a derivation marker (an apostrophe). "Q", "p", "+P", "-R"
// and "L'" are valid; "QQ", "+", "P2" and the empty string are not.
package piece

// Valid reports whether text is a well-formed piece identifier.
func Valid(text string) bool {
	if text == "" {
		return false
	}
	i := 0
	if text[i] == '+' || text[i] == '-' {
		i++
	}
	if i >= len(text) || !isLetter(text[i]) {
		return false
	}
	i++
	if i < len(text) && text[i] == '\'' {
		i++
	}
	return i == len(text)
}

// Base returns the bare letter identifier with markers stripped, or "" when
// text is not valid.
func Base(text string) string {
	if !Valid(text) {
		return ""
	}
	if text[0] == '+' || text[0] == '-' {
		text = text[1:]
	}
	return text[:1]
}

// Enhanced reports whether a valid identifier carries the '+' marker.
func Enhanced(text string) bool {
	return Valid(text) && text[0] == '+'
}

// Diminished reports whether a valid identifier carries the '-' marker.
func Diminished(text string) bool {
	return Valid(text) && text[0] == '-'
}

// Derived reports whether a valid identifier carries the trailing
// derivation marker.
func Derived(text string) bool {
	return Valid(text) && text[len(text)-1] == '\''
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
