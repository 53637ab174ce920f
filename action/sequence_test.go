// FILE: action/sequence_test.go
package action_test

import (
	"errors"
	"testing"

	"notation/action"
)

func TestParseSequence(t *testing.T) {
	// Kingside castling: two coupled movements in one turn.
	seq, err := action.ParseSequence("e1~g1;h1~f1")
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	want := action.Sequence{
		action.Special{Source: "e1", Destination: "g1"},
		action.Special{Source: "h1", Destination: "f1"},
	}
	if !seq.Equal(want) {
		t.Fatalf("ParseSequence = %#v, want %#v", seq, want)
	}
	if seq.String() != "e1~g1;h1~f1" {
		t.Errorf("Sequence render = %q", seq.String())
	}
}

func TestParseSequenceSingle(t *testing.T) {
	seq, err := action.ParseSequence("...")
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	if len(seq) != 1 || !action.IsPass(seq[0]) {
		t.Fatalf("ParseSequence(\"...\") = %#v", seq)
	}
}

func TestParseSequenceOrderPreserved(t *testing.T) {
	// En passant: pawn advance plus removal of the bypassed pawn.
	seq, err := action.ParseSequence("d5~e6;+e5")
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("len = %d, want 2", len(seq))
	}
	if !action.IsSpecial(seq[0]) || !action.IsStaticCapture(seq[1]) {
		t.Errorf("order not preserved: %#v", seq)
	}
}

func TestParseSequenceInvalid(t *testing.T) {
	invalid := []string{
		"",
		";",
		"e2-e4;",
		";e2-e4",
		"e2-e4;;e5-e6",
		"e2-e4; e5-e6",
		"e2-e4 ;e5-e6",
		"e2-e4;e5e6",
	}
	for _, text := range invalid {
		if _, err := action.ParseSequence(text); err == nil {
			t.Errorf("ParseSequence(%q) succeeded, want error", text)
		}
		if action.ValidSequence(text) {
			t.Errorf("ValidSequence(%q) = true, want false", text)
		}
	}

	if _, err := action.ParseSequence("e2-e4;"); !errors.Is(err, action.ErrInvalidSyntax) {
		t.Errorf("trailing delimiter error = %v", err)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	texts := []string{
		"e2-e4",
		"e1~g1;h1~f1",
		"d5~e6;+e5",
		"P*e5",
		"...;...",
		"e7-e8=Q;+d4;L.b4",
	}
	for _, text := range texts {
		seq, err := action.ParseSequence(text)
		if err != nil {
			t.Errorf("ParseSequence(%q): %v", text, err)
			continue
		}
		if seq.String() != text {
			t.Errorf("round trip %q -> %q", text, seq.String())
		}
		back, err := action.ParseSequence(seq.String())
		if err != nil || !back.Equal(seq) {
			t.Errorf("re-parse of %q = %#v, %v", seq.String(), back, err)
		}
	}
}

func TestSequenceEqual(t *testing.T) {
	a, _ := action.ParseSequence("e2-e4;+d4")
	b, _ := action.ParseSequence("e2-e4;+d4")
	c, _ := action.ParseSequence("e2-e4")
	d, _ := action.ParseSequence("e2-e4;+d5")
	if !a.Equal(b) {
		t.Error("identical sequences compare unequal")
	}
	if a.Equal(c) {
		t.Error("sequences of different length compare equal")
	}
	if a.Equal(d) {
		t.Error("sequences with different actions compare equal")
	}
	var empty action.Sequence
	if empty.String() != "" {
		t.Errorf("empty sequence renders %q", empty.String())
	}
}
