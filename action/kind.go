// FILE: action/kind.go
package action

// Kind identifies one of the eight action variants.
type Kind int

const (
	KindPass Kind = iota
	KindMove
	KindCapture
	KindSpecial
	KindStaticCapture
	KindDrop
	KindDropCapture
	KindModify
)

func (k Kind) String() string {
	switch k {
	case KindPass:
		return "pass"
	case KindMove:
		return "move"
	case KindCapture:
		return "capture"
	case KindSpecial:
		return "special"
	case KindStaticCapture:
		return "static_capture"
	case KindDrop:
		return "drop"
	case KindDropCapture:
		return "drop_capture"
	case KindModify:
		return "modify"
	default:
		return "unknown"
	}
}
