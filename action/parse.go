// FILE: action/parse.go
package action

import (
	"errors"
	"strings"

	"notation/coord"
	"notation/piece"
)

// Operator characters. The turn delimiter in sequence.go must stay distinct
// from all of these.
const (
	opMove        = '-'
	opCapture     = '+'
	opSpecial     = '~'
	opDrop        = '*'
	opDropCapture = '.'
	opTransform   = '='

	passLiteral = "..."
)

// variant couples a recognizer with its extractor. extract returns
// errNoMatch when the shape does not fit (try the next variant), a
// *ParseError when the shape fits but an embedded token fails its grammar,
// and the parsed Action otherwise.
type variant struct {
	kind    Kind
	extract func(string) (Action, error)
}

// dispatchOrder is the fixed priority order of the format. Several shapes
// overlap textually ('+' opens both Capture and StaticCapture, '=' appears
// in Modify and in every transformation suffix), so a total, documented
// order is required for Parse to be a pure function. Modify comes last: it
// is recognized by '=' alone, which every other variant may also embed.
var dispatchOrder = []variant{
	{KindPass, extractPass},
	{KindMove, extractMove},
	{KindCapture, extractCapture},
	{KindSpecial, extractSpecial},
	{KindStaticCapture, extractStaticCapture},
	{KindDrop, extractDrop},
	{KindDropCapture, extractDropCapture},
	{KindModify, extractModify},
}

// Parse converts text into its Action value. Variants are tried in the
// fixed priority order; the first whose shape and embedded grammars both
// match wins. When nothing matches, the error is the most specific failure
// seen: a coordinate, piece or transformation-marker complaint from a
// variant whose shape fit, or ErrInvalidSyntax naming text verbatim.
func Parse(text string) (Action, error) {
	var diag error
	for _, v := range dispatchOrder {
		a, err := v.extract(text)
		if err == nil {
			return a, nil
		}
		if diag == nil && !errors.Is(err, errNoMatch) {
			diag = err
		}
	}
	if diag != nil {
		return nil, diag
	}
	return nil, syntaxErr(text)
}

// Valid reports whether text parses as a single action.
func Valid(text string) bool {
	for _, v := range dispatchOrder {
		if _, err := v.extract(text); err == nil {
			return true
		}
	}
	return false
}

// TryParse is the best-effort variant of Parse: it reports ok=false instead
// of an error, discarding the failure detail. This is the only place the
// taxonomy is deliberately dropped.
func TryParse(text string) (Action, bool) {
	a, err := Parse(text)
	if err != nil {
		return nil, false
	}
	return a, true
}

func extractPass(text string) (Action, error) {
	if text != passLiteral {
		return nil, errNoMatch
	}
	return Pass{}, nil
}

func extractMove(text string) (Action, error) {
	src, dst, transform, err := splitMovement(text, opMove)
	if err != nil {
		return nil, err
	}
	return Move{Source: src, Destination: dst, Transformation: transform}, nil
}

// extractCapture splits on the first '+'. An empty left-hand side is not a
// Capture at all; that text belongs to StaticCapture.
func extractCapture(text string) (Action, error) {
	src, dst, transform, err := splitMovement(text, opCapture)
	if err != nil {
		return nil, err
	}
	return Capture{Source: src, Destination: dst, Transformation: transform}, nil
}

func extractSpecial(text string) (Action, error) {
	src, dst, transform, err := splitMovement(text, opSpecial)
	if err != nil {
		return nil, err
	}
	return Special{Source: src, Destination: dst, Transformation: transform}, nil
}

func extractStaticCapture(text string) (Action, error) {
	if len(text) < 2 || text[0] != opCapture {
		return nil, errNoMatch
	}
	dst := text[1:]
	if !coord.Valid(dst) {
		return nil, coordErr(dst)
	}
	return StaticCapture{Destination: dst}, nil
}

func extractDrop(text string) (Action, error) {
	pc, dst, transform, err := splitPlacement(text, opDrop)
	if err != nil {
		return nil, err
	}
	return Drop{Piece: pc, Destination: dst, Transformation: transform}, nil
}

func extractDropCapture(text string) (Action, error) {
	pc, dst, transform, err := splitPlacement(text, opDropCapture)
	if err != nil {
		return nil, err
	}
	return DropCapture{Piece: pc, Destination: dst, Transformation: transform}, nil
}

func extractModify(text string) (Action, error) {
	i := strings.IndexByte(text, opTransform)
	if i <= 0 || i == len(text)-1 {
		return nil, errNoMatch
	}
	pc := text[i+1:]
	if strings.IndexByte(pc, opTransform) >= 0 {
		return nil, transformErr(text)
	}
	dst := text[:i]
	if !coord.Valid(dst) {
		return nil, coordErr(dst)
	}
	if !piece.Valid(pc) {
		return nil, pieceErr(pc)
	}
	return Modify{Destination: dst, Piece: pc}, nil
}

// splitMovement cuts text at the first occurrence of op into source,
// destination and optional transformation, then checks each token's
// grammar. A missing operator or a missing operand is errNoMatch; a present
// but malformed token is a diagnostic.
func splitMovement(text string, op byte) (src, dst, transform string, err error) {
	i := strings.IndexByte(text, op)
	if i <= 0 {
		return "", "", "", errNoMatch
	}
	src = text[:i]
	dst, transform, err = splitTransformation(text, text[i+1:])
	if err != nil {
		return "", "", "", err
	}
	if !coord.Valid(src) {
		return "", "", "", coordErr(src)
	}
	if !coord.Valid(dst) {
		return "", "", "", coordErr(dst)
	}
	if transform != "" && !piece.Valid(transform) {
		return "", "", "", pieceErr(transform)
	}
	return src, dst, transform, nil
}

// splitPlacement is splitMovement for the drop shapes, whose piece prefix
// before op may be empty.
func splitPlacement(text string, op byte) (pc, dst, transform string, err error) {
	i := strings.IndexByte(text, op)
	if i < 0 {
		return "", "", "", errNoMatch
	}
	pc = text[:i]
	dst, transform, err = splitTransformation(text, text[i+1:])
	if err != nil {
		return "", "", "", err
	}
	if pc != "" && !piece.Valid(pc) {
		return "", "", "", pieceErr(pc)
	}
	if !coord.Valid(dst) {
		return "", "", "", coordErr(dst)
	}
	if transform != "" && !piece.Valid(transform) {
		return "", "", "", pieceErr(transform)
	}
	return pc, dst, transform, nil
}

// splitTransformation cuts the text after a variant's main operator into
// destination and optional transformation. At most one '=' is allowed, and
// both sides of it must be non-empty. text is the full action string, kept
// for diagnostics.
func splitTransformation(text, rest string) (dst, transform string, err error) {
	i := strings.IndexByte(rest, opTransform)
	if i < 0 {
		if rest == "" {
			return "", "", errNoMatch
		}
		return rest, "", nil
	}
	dst = rest[:i]
	transform = rest[i+1:]
	if strings.IndexByte(transform, opTransform) >= 0 {
		return "", "", transformErr(text)
	}
	if dst == "" || transform == "" {
		return "", "", errNoMatch
	}
	return dst, transform, nil
}
