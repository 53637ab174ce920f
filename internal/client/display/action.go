// FILE: internal/client/display/action.go
package display

import (
	"fmt"

	"notation/action"
)

// RenderActionText prints one turn of action text with colored tokens
func RenderActionText(text string) {
	for _, char := range text {
		switch {
		case char >= 'A' && char <= 'Z':
			// Piece letters - Blue
			fmt.Printf("%s%c%s", Blue, char, Reset)
		case (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'):
			// Coordinate characters - Cyan
			fmt.Printf("%s%c%s", Cyan, char, Reset)
		case char == '-' || char == '+' || char == '~' || char == '*' || char == '.' || char == '=' || char == '\'':
			// Operators and piece marks - Yellow
			fmt.Printf("%s%c%s", Yellow, char, Reset)
		case char == ';':
			// Turn delimiter - White
			fmt.Printf("%s%c%s", White, char, Reset)
		default:
			fmt.Printf("%c", char)
		}
	}
	fmt.Println()
}

// ColorForStatus returns a colored record status indicator
func ColorForStatus(status string) string {
	if status == "open" {
		return Green + "open" + Reset
	}
	return Yellow + status + Reset
}

// ExplainAction describes one action in plain words
func ExplainAction(a action.Action) string {
	switch v := a.(type) {
	case action.Pass:
		return "pass, forfeiting the turn"
	case action.Move:
		return movement(fmt.Sprintf("the piece at %s moves to %s", v.Source, v.Destination), v.Transformation)
	case action.Capture:
		return movement(fmt.Sprintf("the piece at %s captures on %s", v.Source, v.Destination), v.Transformation)
	case action.Special:
		return movement(fmt.Sprintf("the piece at %s makes a special move to %s", v.Source, v.Destination), v.Transformation)
	case action.StaticCapture:
		return fmt.Sprintf("the piece at %s is captured in place", v.Destination)
	case action.Drop:
		return movement(fmt.Sprintf("a %s from reserve is placed at %s", pieceWord(v.Piece), v.Destination), v.Transformation)
	case action.DropCapture:
		return movement(fmt.Sprintf("a %s from reserve is placed at %s, capturing the occupant", pieceWord(v.Piece), v.Destination), v.Transformation)
	case action.Modify:
		return fmt.Sprintf("the piece at %s becomes %s", v.Destination, v.Piece)
	}
	return ""
}

func movement(s, transformation string) string {
	if transformation == "" {
		return s
	}
	return s + fmt.Sprintf(" and transforms into %s", transformation)
}

func pieceWord(piece string) string {
	if piece == "" {
		return "piece"
	}
	return piece
}
