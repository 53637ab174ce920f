// FILE: internal/server/core/api.go
package core

import (
	"fmt"

	"notation/action"
)

// Request types

type ParseRequest struct {
	Text string `json:"text" validate:"required,min=1,max=512"`
}

type RenderRequest struct {
	Actions []ActionPayload `json:"actions" validate:"required,min=1,max=128"`
}

type BatchParseRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,max=256,dive,min=1,max=512"`
}

type CreateRecordRequest struct {
	Title string `json:"title,omitempty" validate:"omitempty,max=120"`
	Game  string `json:"game,omitempty" validate:"omitempty,max=40"` // free-form ruleset label, e.g. "chess" or "shogi"
}

type AppendTurnRequest struct {
	Text string `json:"text" validate:"required,min=1,max=512"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=1024"`
}

type FinalizeRequest struct {
	Result string `json:"result,omitempty" validate:"omitempty,max=40"`
}

// Response types

// ActionPayload is the wire form of a single parsed action. Fields that do
// not apply to the action's kind are left empty.
type ActionPayload struct {
	Kind           string `json:"kind"`
	Source         string `json:"source,omitempty"`
	Destination    string `json:"destination,omitempty"`
	Piece          string `json:"piece,omitempty"`
	Transformation string `json:"transformation,omitempty"`
	Text           string `json:"text"`
}

type ParseResponse struct {
	Text    string          `json:"text"`
	Actions []ActionPayload `json:"actions"`
}

type RenderResponse struct {
	Text string `json:"text"`
}

type BatchResult struct {
	Text    string          `json:"text"`
	Valid   bool            `json:"valid"`
	Actions []ActionPayload `json:"actions,omitempty"`
	Error   *ErrorResponse  `json:"error,omitempty"`
}

type BatchParseResponse struct {
	Results []BatchResult `json:"results"`
}

type TurnInfo struct {
	Number  int    `json:"number"`
	Text    string `json:"text"`
	Actions int    `json:"actions"`
}

type RecordResponse struct {
	RecordID string     `json:"recordId"`
	Title    string     `json:"title,omitempty"`
	Game     string     `json:"game,omitempty"`
	Status   string     `json:"status"` // "open" or "final"
	Result   string     `json:"result,omitempty"`
	Turns    []TurnInfo `json:"turns"`
	LastTurn *TurnInfo  `json:"lastTurn,omitempty"`
}

type RecordSummary struct {
	RecordID string `json:"recordId"`
	Title    string `json:"title,omitempty"`
	Game     string `json:"game,omitempty"`
	Status   string `json:"status"`
	Turns    int    `json:"turns"`
}

type RecordListResponse struct {
	Records []RecordSummary `json:"records"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// PayloadFromAction flattens a parsed action for JSON transport.
func PayloadFromAction(a action.Action) ActionPayload {
	p := ActionPayload{Kind: a.Kind().String(), Text: a.String()}
	switch v := a.(type) {
	case action.Move:
		p.Source, p.Destination, p.Transformation = v.Source, v.Destination, v.Transformation
	case action.Capture:
		p.Source, p.Destination, p.Transformation = v.Source, v.Destination, v.Transformation
	case action.Special:
		p.Source, p.Destination, p.Transformation = v.Source, v.Destination, v.Transformation
	case action.StaticCapture:
		p.Destination = v.Destination
	case action.Drop:
		p.Piece, p.Destination, p.Transformation = v.Piece, v.Destination, v.Transformation
	case action.DropCapture:
		p.Piece, p.Destination, p.Transformation = v.Piece, v.Destination, v.Transformation
	case action.Modify:
		p.Destination, p.Piece = v.Destination, v.Piece
	}
	return p
}

// PayloadsFromSequence flattens every action of a turn.
func PayloadsFromSequence(seq action.Sequence) []ActionPayload {
	out := make([]ActionPayload, len(seq))
	for i, a := range seq {
		out[i] = PayloadFromAction(a)
	}
	return out
}

// ActionFromPayload rebuilds an action from its wire form. The Text field
// is ignored; kind and operand fields are authoritative.
func ActionFromPayload(p ActionPayload) (action.Action, error) {
	switch p.Kind {
	case "pass":
		return action.NewPass(), nil
	case "move":
		return action.NewMove(p.Source, p.Destination, p.Transformation)
	case "capture":
		return action.NewCapture(p.Source, p.Destination, p.Transformation)
	case "special":
		return action.NewSpecial(p.Source, p.Destination, p.Transformation)
	case "static_capture":
		return action.NewStaticCapture(p.Destination)
	case "drop":
		return action.NewDrop(p.Piece, p.Destination, p.Transformation)
	case "drop_capture":
		return action.NewDropCapture(p.Piece, p.Destination, p.Transformation)
	case "modify":
		return action.NewModify(p.Destination, p.Piece)
	default:
		return nil, fmt.Errorf("unknown action kind %q", p.Kind)
	}
}

// SequenceFromPayloads rebuilds a full turn from wire form.
func SequenceFromPayloads(payloads []ActionPayload) (action.Sequence, error) {
	seq := make(action.Sequence, 0, len(payloads))
	for i, p := range payloads {
		a, err := ActionFromPayload(p)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		seq = append(seq, a)
	}
	return seq, nil
}
