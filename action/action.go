// FILE: action/action.go

// Package action parses and renders a compact textual notation for atomic
// board-game actions (chess, shogi, xiangqi and similar).
//
// One action is one of eight shapes built from single-character operators
// over coordinate and piece tokens:
//
//	...        pass
//	S-D[=T]    move from S to D, optional transformation T
//	S+D[=T]    capture on D
//	S~D[=T]    special move (castling, en passant side effects)
//	+D         static capture: D is emptied, nothing moves there
//	[P]*D[=T]  drop P from hand onto D
//	[P].D[=T]  drop with capture
//	D=P        in-place modification of the piece on D
//
// The notation records what happened, never whether it was legal: no check
// state, no turn order, no piece-type disambiguation.
//
// Parsed values are comparable structs behind the Action interface, so two
// actions are equal under == exactly when they have the same variant and
// fields. Parse and String are exact inverses for every well-formed value.
// Everything in this package is a pure function over its input; concurrent
// use needs no coordination.
package action

import (
	"notation/coord"
	"notation/piece"
)

// Action is one atomic encoded game event, a closed sum over the eight
// variant types in this package.
type Action interface {
	// Kind identifies the variant.
	Kind() Kind
	// String renders the action in canonical notation. Parsing the result
	// yields a value equal to the receiver.
	String() string

	isAction()
}

// Pass is the no-op action.
type Pass struct{}

// Move relocates a piece from Source to Destination without capturing.
type Move struct {
	Source         string
	Destination    string
	Transformation string // optional, "" when absent
}

// Capture relocates a piece from Source to Destination, removing the piece
// already there.
type Capture struct {
	Source         string
	Destination    string
	Transformation string // optional
}

// Special is a movement with side effects outside the two named squares,
// such as the rook leg of castling or an en passant removal.
type Special struct {
	Source         string
	Destination    string
	Transformation string // optional
}

// StaticCapture removes the piece on Destination without moving anything
// onto the square.
type StaticCapture struct {
	Destination string
}

// Drop places a piece from a player's reserve onto Destination. Piece is
// optional when the notation context makes it unambiguous.
type Drop struct {
	Piece          string // optional
	Destination    string
	Transformation string // optional
}

// DropCapture places a piece from reserve onto Destination, capturing the
// piece already there.
type DropCapture struct {
	Piece          string // optional
	Destination    string
	Transformation string // optional
}

// Modify replaces the piece on Destination in place; Piece is the state
// after the change.
type Modify struct {
	Destination string
	Piece       string
}

func (Pass) Kind() Kind          { return KindPass }
func (Move) Kind() Kind          { return KindMove }
func (Capture) Kind() Kind       { return KindCapture }
func (Special) Kind() Kind       { return KindSpecial }
func (StaticCapture) Kind() Kind { return KindStaticCapture }
func (Drop) Kind() Kind          { return KindDrop }
func (DropCapture) Kind() Kind   { return KindDropCapture }
func (Modify) Kind() Kind        { return KindModify }

func (Pass) isAction()          {}
func (Move) isAction()          {}
func (Capture) isAction()       {}
func (Special) isAction()       {}
func (StaticCapture) isAction() {}
func (Drop) isAction()          {}
func (DropCapture) isAction()   {}
func (Modify) isAction()        {}

func (Pass) String() string { return passLiteral }

func (a Move) String() string {
	return renderMovement(a.Source, opMove, a.Destination, a.Transformation)
}

func (a Capture) String() string {
	return renderMovement(a.Source, opCapture, a.Destination, a.Transformation)
}

func (a Special) String() string {
	return renderMovement(a.Source, opSpecial, a.Destination, a.Transformation)
}

func (a StaticCapture) String() string {
	return string(opCapture) + a.Destination
}

func (a Drop) String() string {
	return renderPlacement(a.Piece, opDrop, a.Destination, a.Transformation)
}

func (a DropCapture) String() string {
	return renderPlacement(a.Piece, opDropCapture, a.Destination, a.Transformation)
}

func (a Modify) String() string {
	return a.Destination + string(opTransform) + a.Piece
}

func renderMovement(src string, op byte, dst, transform string) string {
	text := src + string(op) + dst
	if transform != "" {
		text += string(opTransform) + transform
	}
	return text
}

func renderPlacement(pc string, op byte, dst, transform string) string {
	text := pc + string(op) + dst
	if transform != "" {
		text += string(opTransform) + transform
	}
	return text
}

// NewPass returns the pass action.
func NewPass() Pass { return Pass{} }

// NewMove builds a Move, validating each part eagerly. transformation may
// be empty.
func NewMove(source, destination, transformation string) (Move, error) {
	if err := checkMovement(source, destination, transformation); err != nil {
		return Move{}, err
	}
	return Move{Source: source, Destination: destination, Transformation: transformation}, nil
}

// NewCapture builds a Capture, validating each part eagerly.
func NewCapture(source, destination, transformation string) (Capture, error) {
	if err := checkMovement(source, destination, transformation); err != nil {
		return Capture{}, err
	}
	return Capture{Source: source, Destination: destination, Transformation: transformation}, nil
}

// NewSpecial builds a Special, validating each part eagerly.
func NewSpecial(source, destination, transformation string) (Special, error) {
	if err := checkMovement(source, destination, transformation); err != nil {
		return Special{}, err
	}
	return Special{Source: source, Destination: destination, Transformation: transformation}, nil
}

// NewStaticCapture builds a StaticCapture, validating the destination
// eagerly.
func NewStaticCapture(destination string) (StaticCapture, error) {
	if !coord.Valid(destination) {
		return StaticCapture{}, coordErr(destination)
	}
	return StaticCapture{Destination: destination}, nil
}

// NewDrop builds a Drop, validating each part eagerly. pc and
// transformation may be empty.
func NewDrop(pc, destination, transformation string) (Drop, error) {
	if err := checkPlacement(pc, destination, transformation); err != nil {
		return Drop{}, err
	}
	return Drop{Piece: pc, Destination: destination, Transformation: transformation}, nil
}

// NewDropCapture builds a DropCapture, validating each part eagerly.
func NewDropCapture(pc, destination, transformation string) (DropCapture, error) {
	if err := checkPlacement(pc, destination, transformation); err != nil {
		return DropCapture{}, err
	}
	return DropCapture{Piece: pc, Destination: destination, Transformation: transformation}, nil
}

// NewModify builds a Modify, validating each part eagerly. pc is required.
func NewModify(destination, pc string) (Modify, error) {
	if !coord.Valid(destination) {
		return Modify{}, coordErr(destination)
	}
	if !piece.Valid(pc) {
		return Modify{}, pieceErr(pc)
	}
	return Modify{Destination: destination, Piece: pc}, nil
}

func checkMovement(src, dst, transform string) error {
	if !coord.Valid(src) {
		return coordErr(src)
	}
	if !coord.Valid(dst) {
		return coordErr(dst)
	}
	if transform != "" && !piece.Valid(transform) {
		return pieceErr(transform)
	}
	return nil
}

func checkPlacement(pc, dst, transform string) error {
	if pc != "" && !piece.Valid(pc) {
		return pieceErr(pc)
	}
	if !coord.Valid(dst) {
		return coordErr(dst)
	}
	if transform != "" && !piece.Valid(transform) {
		return pieceErr(transform)
	}
	return nil
}

// IsPass reports whether a is a Pass.
func IsPass(a Action) bool { _, ok := a.(Pass); return ok }

// IsMove reports whether a is a Move.
func IsMove(a Action) bool { _, ok := a.(Move); return ok }

// IsCapture reports whether a is a Capture.
func IsCapture(a Action) bool { _, ok := a.(Capture); return ok }

// IsSpecial reports whether a is a Special.
func IsSpecial(a Action) bool { _, ok := a.(Special); return ok }

// IsStaticCapture reports whether a is a StaticCapture.
func IsStaticCapture(a Action) bool { _, ok := a.(StaticCapture); return ok }

// IsDrop reports whether a is a Drop.
func IsDrop(a Action) bool { _, ok := a.(Drop); return ok }

// IsDropCapture reports whether a is a DropCapture.
func IsDropCapture(a Action) bool { _, ok := a.(DropCapture); return ok }

// IsModify reports whether a is a Modify.
func IsModify(a Action) bool { _, ok := a.(Modify); return ok }

// IsMovement reports whether a relocates a piece between two squares, i.e.
// is a Move, Capture or Special.
func IsMovement(a Action) bool {
	switch a.(type) {
	case Move, Capture, Special:
		return true
	}
	return false
}

// IsDropLike reports whether a places a piece from reserve, i.e. is a Drop
// or DropCapture.
func IsDropLike(a Action) bool {
	switch a.(type) {
	case Drop, DropCapture:
		return true
	}
	return false
}
