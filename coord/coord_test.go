// FILE: coord/coord_test.go
package coord_test

import (
	"testing"

	"notation/coord"
)

func TestValid(t *testing.T) {
	valid := []string{"e4", "a1", "h8", "5e", "9i", "e10", "d", "0", "44", "z26", "a1b2"}
	for _, s := range valid {
		if !coord.Valid(s) {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"", "E4", "e 4", " e4", "e4 ", "e-4", "e+4", "e~4", "e*4", "e.4",
		"e=4", "e;4", "e'", "é4", "Ａ1",
	}
	for _, s := range invalid {
		if coord.Valid(s) {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}
