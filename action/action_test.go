// FILE: action/action_test.go
package action_test

import (
	"errors"
	"testing"

	"notation/action"
)

func TestConstructors(t *testing.T) {
	mv, err := action.NewMove("e7", "e8", "Q")
	if err != nil {
		t.Fatalf("NewMove: %v", err)
	}
	if mv.String() != "e7-e8=Q" {
		t.Errorf("NewMove render = %q, want \"e7-e8=Q\"", mv.String())
	}

	cp, err := action.NewCapture("d1", "f3", "")
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if cp.String() != "d1+f3" {
		t.Errorf("NewCapture render = %q", cp.String())
	}

	sp, err := action.NewSpecial("e1", "g1", "")
	if err != nil {
		t.Fatalf("NewSpecial: %v", err)
	}
	if sp.String() != "e1~g1" {
		t.Errorf("NewSpecial render = %q", sp.String())
	}

	sc, err := action.NewStaticCapture("d4")
	if err != nil {
		t.Fatalf("NewStaticCapture: %v", err)
	}
	if sc.String() != "+d4" {
		t.Errorf("NewStaticCapture render = %q", sc.String())
	}

	dp, err := action.NewDrop("", "d4", "")
	if err != nil {
		t.Fatalf("NewDrop with empty piece: %v", err)
	}
	if dp.String() != "*d4" {
		t.Errorf("NewDrop render = %q", dp.String())
	}

	dc, err := action.NewDropCapture("L", "b4", "")
	if err != nil {
		t.Fatalf("NewDropCapture: %v", err)
	}
	if dc.String() != "L.b4" {
		t.Errorf("NewDropCapture render = %q", dc.String())
	}

	md, err := action.NewModify("e4", "+P")
	if err != nil {
		t.Fatalf("NewModify: %v", err)
	}
	if md.String() != "e4=+P" {
		t.Errorf("NewModify render = %q", md.String())
	}

	if action.NewPass().String() != "..." {
		t.Errorf("NewPass render = %q", action.NewPass().String())
	}
}

func TestConstructorValidation(t *testing.T) {
	if _, err := action.NewMove("E7", "e8", ""); !errors.Is(err, action.ErrInvalidCoordinate) {
		t.Errorf("NewMove bad source error = %v", err)
	}
	if _, err := action.NewMove("e7", "", ""); !errors.Is(err, action.ErrInvalidCoordinate) {
		t.Errorf("NewMove empty destination error = %v", err)
	}
	if _, err := action.NewMove("e7", "e8", "QQ"); !errors.Is(err, action.ErrInvalidPiece) {
		t.Errorf("NewMove bad transformation error = %v", err)
	}
	if _, err := action.NewStaticCapture(""); !errors.Is(err, action.ErrInvalidCoordinate) {
		t.Errorf("NewStaticCapture empty destination error = %v", err)
	}
	if _, err := action.NewDrop("xx", "e5", ""); !errors.Is(err, action.ErrInvalidPiece) {
		t.Errorf("NewDrop bad piece error = %v", err)
	}
	if _, err := action.NewModify("e4", ""); !errors.Is(err, action.ErrInvalidPiece) {
		t.Errorf("NewModify empty piece error = %v", err)
	}
	if _, err := action.NewModify("e=4", "P"); !errors.Is(err, action.ErrInvalidCoordinate) {
		t.Errorf("NewModify bad destination error = %v", err)
	}
}

// Every validly constructed action must survive render then parse
// unchanged.
func TestRoundTrip(t *testing.T) {
	actions := []action.Action{
		action.Pass{},
		action.Move{Source: "e2", Destination: "e4"},
		action.Move{Source: "e7", Destination: "e8", Transformation: "Q"},
		action.Move{Source: "a", Destination: "a"},
		action.Capture{Source: "d1", Destination: "f3"},
		action.Capture{Source: "d1", Destination: "f3", Transformation: "+Q"},
		action.Special{Source: "e1", Destination: "g1"},
		action.Special{Source: "5e", Destination: "5d", Transformation: "-s'"},
		action.StaticCapture{Destination: "d4"},
		action.StaticCapture{Destination: "999"},
		action.Drop{Destination: "d4"},
		action.Drop{Piece: "P", Destination: "e5"},
		action.Drop{Piece: "+p'", Destination: "5e", Transformation: "+p'"},
		action.DropCapture{Destination: "c3"},
		action.DropCapture{Piece: "L'", Destination: "b4", Transformation: "-L"},
		action.Modify{Destination: "e4", Piece: "+P"},
		action.Modify{Destination: "0", Piece: "k'"},
	}
	for _, a := range actions {
		text := a.String()
		back, err := action.Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) after render of %#v: %v", text, a, err)
			continue
		}
		if back != a {
			t.Errorf("round trip %#v -> %q -> %#v", a, text, back)
		}
	}
}

func TestPredicates(t *testing.T) {
	move := action.Action(action.Move{Source: "e2", Destination: "e4"})
	capture := action.Action(action.Capture{Source: "d1", Destination: "f3"})
	special := action.Action(action.Special{Source: "e1", Destination: "g1"})
	static := action.Action(action.StaticCapture{Destination: "d4"})
	drop := action.Action(action.Drop{Destination: "d4"})
	dropCapture := action.Action(action.DropCapture{Destination: "c3"})
	modify := action.Action(action.Modify{Destination: "e4", Piece: "+P"})
	pass := action.Action(action.Pass{})

	tests := []struct {
		a        action.Action
		kind     action.Kind
		movement bool
		dropLike bool
	}{
		{pass, action.KindPass, false, false},
		{move, action.KindMove, true, false},
		{capture, action.KindCapture, true, false},
		{special, action.KindSpecial, true, false},
		{static, action.KindStaticCapture, false, false},
		{drop, action.KindDrop, false, true},
		{dropCapture, action.KindDropCapture, false, true},
		{modify, action.KindModify, false, false},
	}
	for _, tt := range tests {
		if tt.a.Kind() != tt.kind {
			t.Errorf("%v: Kind() = %v, want %v", tt.a, tt.a.Kind(), tt.kind)
		}
		if got := action.IsMovement(tt.a); got != tt.movement {
			t.Errorf("IsMovement(%v) = %v, want %v", tt.a, got, tt.movement)
		}
		if got := action.IsDropLike(tt.a); got != tt.dropLike {
			t.Errorf("IsDropLike(%v) = %v, want %v", tt.a, got, tt.dropLike)
		}
	}

	if !action.IsPass(pass) || action.IsPass(move) {
		t.Error("IsPass misclassified")
	}
	if !action.IsMove(move) || action.IsMove(capture) {
		t.Error("IsMove misclassified")
	}
	if !action.IsCapture(capture) || action.IsCapture(static) {
		t.Error("IsCapture misclassified")
	}
	if !action.IsSpecial(special) || action.IsSpecial(move) {
		t.Error("IsSpecial misclassified")
	}
	if !action.IsStaticCapture(static) || action.IsStaticCapture(capture) {
		t.Error("IsStaticCapture misclassified")
	}
	if !action.IsDrop(drop) || action.IsDrop(dropCapture) {
		t.Error("IsDrop misclassified")
	}
	if !action.IsDropCapture(dropCapture) || action.IsDropCapture(drop) {
		t.Error("IsDropCapture misclassified")
	}
	if !action.IsModify(modify) || action.IsModify(pass) {
		t.Error("IsModify misclassified")
	}
	if action.IsMovement(nil) || action.IsDropLike(nil) || action.IsPass(nil) {
		t.Error("nil action satisfied a predicate")
	}
}

func TestEquality(t *testing.T) {
	a1, _ := action.NewMove("e2", "e4", "")
	a2, _ := action.NewMove("e2", "e4", "")
	if action.Action(a1) != action.Action(a2) {
		t.Error("equal moves compare unequal")
	}

	a3, _ := action.NewMove("e2", "e4", "Q")
	if action.Action(a1) == action.Action(a3) {
		t.Error("moves with different transformations compare equal")
	}

	// Same fields, different variant: never equal.
	c, _ := action.NewCapture("e2", "e4", "")
	if action.Action(a1) == action.Action(c) {
		t.Error("move compares equal to capture")
	}

	p1, _ := action.Parse("...")
	p2, _ := action.Parse("...")
	if p1 != p2 {
		t.Error("two parsed passes compare unequal")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind action.Kind
		want string
	}{
		{action.KindPass, "pass"},
		{action.KindMove, "move"},
		{action.KindCapture, "capture"},
		{action.KindSpecial, "special"},
		{action.KindStaticCapture, "static_capture"},
		{action.KindDrop, "drop"},
		{action.KindDropCapture, "drop_capture"},
		{action.KindModify, "modify"},
		{action.Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
