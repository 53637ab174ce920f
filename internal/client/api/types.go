// FILE: internal/client/api/types.go
package api

import "time"

// ErrorResponse mirrors the server's error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
}

// ActionPayload is the structured form of one parsed action
type ActionPayload struct {
	Kind           string `json:"kind"`
	Source         string `json:"source,omitempty"`
	Destination    string `json:"destination,omitempty"`
	Piece          string `json:"piece,omitempty"`
	Transformation string `json:"transformation,omitempty"`
	Text           string `json:"text"`
}

type ParseRequest struct {
	Text string `json:"text"`
}

type ParseResponse struct {
	Text    string          `json:"text"`
	Actions []ActionPayload `json:"actions"`
}

type RenderRequest struct {
	Actions []ActionPayload `json:"actions"`
}

type RenderResponse struct {
	Text string `json:"text"`
}

type BatchParseRequest struct {
	Texts []string `json:"texts"`
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

type CreateRecordRequest struct {
	Title string `json:"title,omitempty"`
	Game  string `json:"game,omitempty"`
}

type AppendTurnRequest struct {
	Text string `json:"text"`
}

type UndoRequest struct {
	Count int `json:"count"`
}

type FinalizeRequest struct {
	Result string `json:"result,omitempty"`
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
	Status   string     `json:"status"`
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

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
