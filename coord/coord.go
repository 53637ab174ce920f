// FILE: coord/coord.go

// Package coord validates board coordinate labels.
//
// Labels are opaque to the rest of the system: this package checks lexical
// shape only, never board geometry. A label is one or more characters from
// [a-z0-9], which covers chess ("e4"), shogi ("5e") and xiangqi ("h10")
// style coordinates alike.
package coord

// Valid reports whether text is a well-formed coordinate label.
func Valid(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
