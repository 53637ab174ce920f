// FILE: action/parse_test.go
package action_test

import (
	"errors"
	"testing"

	"notation/action"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want action.Action
	}{
		{"e2-e4", action.Move{Source: "e2", Destination: "e4"}},
		{"e7-e8=Q", action.Move{Source: "e7", Destination: "e8", Transformation: "Q"}},
		{"e2-e2", action.Move{Source: "e2", Destination: "e2"}},
		{"a-b=-P", action.Move{Source: "a", Destination: "b", Transformation: "-P"}},
		{"d1+f3", action.Capture{Source: "d1", Destination: "f3"}},
		{"d1+f3=+Q", action.Capture{Source: "d1", Destination: "f3", Transformation: "+Q"}},
		{"e1~g1", action.Special{Source: "e1", Destination: "g1"}},
		{"5e~5d=+S", action.Special{Source: "5e", Destination: "5d", Transformation: "+S"}},
		{"+d4", action.StaticCapture{Destination: "d4"}},
		{"P*e5", action.Drop{Piece: "P", Destination: "e5"}},
		{"*d4", action.Drop{Destination: "d4"}},
		{"+P*5e", action.Drop{Piece: "+P", Destination: "5e"}},
		{"-p*e4", action.Drop{Piece: "-p", Destination: "e4"}},
		{"P*e5=+P'", action.Drop{Piece: "P", Destination: "e5", Transformation: "+P'"}},
		{"L.b4", action.DropCapture{Piece: "L", Destination: "b4"}},
		{".c3", action.DropCapture{Destination: "c3"}},
		{"L'.b4", action.DropCapture{Piece: "L'", Destination: "b4"}},
		{"...", action.Pass{}},
		{"e4=+P", action.Modify{Destination: "e4", Piece: "+P"}},
		{"9i=Q'", action.Modify{Destination: "9i", Piece: "Q'"}},
	}
	for _, tt := range tests {
		got, err := action.Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.text, got, tt.want)
		}
		if rendered := got.String(); rendered != tt.text {
			t.Errorf("Parse(%q).String() = %q, want input back", tt.text, rendered)
		}
		if !action.Valid(tt.text) {
			t.Errorf("Valid(%q) = false for parseable text", tt.text)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	invalid := []string{
		"",
		" ",
		"   ",
		"..",
		"....",
		"e2e4",
		"e2-",
		"-e4",
		"e2-e8=",
		"e2-e8=QQ",
		"e2 -e4",
		" e2-e4",
		"e2-e4 ",
		"E2-e4",
		"e2-E4",
		"e2--e4",
		"e2-e8=Q=R",
		"d1+f3=",
		"+d4+e5",
		"+",
		"~g1",
		"e1~",
		"*",
		"P*",
		"*=Q",
		"..c3",
		"xx*e4",
		"=Q",
		"e4=",
		"a=b=c",
		"e4=QQ",
		"e2-e4;e5-e6",
	}
	for _, text := range invalid {
		if action.Valid(text) {
			t.Errorf("Valid(%q) = true, want false", text)
		}
		if a, err := action.Parse(text); err == nil {
			t.Errorf("Parse(%q) = %#v, want error", text, a)
		}
	}
}

func TestParseErrorKinds(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{"", action.ErrInvalidSyntax},
		{"e2e4", action.ErrInvalidSyntax},
		{"e2-", action.ErrInvalidSyntax},
		{"-e4", action.ErrInvalidSyntax},
		{"e2-e8=", action.ErrInvalidSyntax},
		{"E2-e4", action.ErrInvalidCoordinate},
		{"e2-E4", action.ErrInvalidCoordinate},
		{"+D4", action.ErrInvalidCoordinate},
		{"e2-e8=QQ", action.ErrInvalidPiece},
		{"xx*e4", action.ErrInvalidPiece},
		{"e4=QQ", action.ErrInvalidPiece},
		{"e2-e8=Q=R", action.ErrMultipleTransformations},
		{"a=b=c", action.ErrMultipleTransformations},
		{"P*e5=Q=R", action.ErrMultipleTransformations},
	}
	for _, tt := range tests {
		_, err := action.Parse(tt.text)
		if err == nil {
			t.Fatalf("Parse(%q) succeeded, want %v", tt.text, tt.want)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.text, err, tt.want)
		}
		var perr *action.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error %v is not a *ParseError", tt.text, err)
		}
	}
}

// Valid and Parse must agree on every input.
func TestValidityCoherence(t *testing.T) {
	samples := []string{
		"e2-e4", "e7-e8=Q", "d1+f3", "+d4", "P*e5", "*d4", "L.b4", "...",
		"e4=+P", "e1~g1",
		"", "....", "e2e4", "e2-", "-e4", "e2-e8=", "e2-e8=QQ", "E2-e4",
		"a=b=c", " ", "e2 -e4", "+", "*", ".",
	}
	for _, s := range samples {
		_, err := action.Parse(s)
		if got := action.Valid(s); got != (err == nil) {
			t.Errorf("Valid(%q) = %v but Parse error = %v", s, got, err)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	samples := []string{"e2-e4", "+d4", "P*e5", "...", "e4=+P", "e2e4", ""}
	for _, s := range samples {
		a1, err1 := action.Parse(s)
		a2, err2 := action.Parse(s)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("Parse(%q) not deterministic: %v vs %v", s, err1, err2)
		}
		if err1 == nil && a1 != a2 {
			t.Errorf("Parse(%q) yielded unequal values %#v and %#v", s, a1, a2)
		}
	}
}

func TestTryParse(t *testing.T) {
	if a, ok := action.TryParse("e2-e4"); !ok || a != (action.Move{Source: "e2", Destination: "e4"}) {
		t.Errorf("TryParse(\"e2-e4\") = %#v, %v", a, ok)
	}
	if a, ok := action.TryParse("e2e4"); ok || a != nil {
		t.Errorf("TryParse(\"e2e4\") = %#v, %v, want nil, false", a, ok)
	}
}
