// FILE: action/sequence.go
package action

import "strings"

// Delimiter joins the actions of one turn, e.g. "e1~g1;h1~f1" for
// castling. It is distinct from every operator character so splitting is
// unambiguous.
const Delimiter = ';'

// Sequence is the ordered list of actions making up one turn.
type Sequence []Action

// ParseSequence parses a delimiter-joined turn. Splitting is strict: each
// part is dispatched exactly as written, so empty parts and whitespace
// around the delimiter are invalid.
func ParseSequence(text string) (Sequence, error) {
	if text == "" {
		return nil, syntaxErr(text)
	}
	parts := strings.Split(text, string(Delimiter))
	seq := make(Sequence, 0, len(parts))
	for _, part := range parts {
		a, err := Parse(part)
		if err != nil {
			return nil, err
		}
		seq = append(seq, a)
	}
	return seq, nil
}

// ValidSequence reports whether text parses as a turn.
func ValidSequence(text string) bool {
	_, err := ParseSequence(text)
	return err == nil
}

// String renders the turn in canonical notation.
func (s Sequence) String() string {
	if len(s) == 0 {
		return ""
	}
	rendered := make([]string, len(s))
	for i, a := range s {
		rendered[i] = a.String()
	}
	return strings.Join(rendered, string(Delimiter))
}

// Equal reports whether two turns have the same actions in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
