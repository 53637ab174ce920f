// FILE: internal/client/session/session.go
// Package session holds the mutable state of an interactive client session.
package session

import (
	"notation/internal/client/api"
)

// Session tracks connection, auth, and record context between commands
type Session struct {
	APIBaseURL string
	Client     *api.Client
	Verbose    bool

	AuthToken   string
	CurrentUser string
	Username    string

	CurrentRecord      string
	LastTurnCount      int
	CurrentRecordState *api.RecordResponse
}

func (s *Session) GetAPIBaseURL() string    { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string) { s.APIBaseURL = url }
func (s *Session) GetClient() interface{}   { return s.Client }
func (s *Session) IsVerbose() bool          { return s.Verbose }

func (s *Session) GetAuthToken() string      { return s.AuthToken }
func (s *Session) SetAuthToken(token string) { s.AuthToken = token }
func (s *Session) GetCurrentUser() string    { return s.CurrentUser }
func (s *Session) SetCurrentUser(id string)  { s.CurrentUser = id }
func (s *Session) GetUsername() string       { return s.Username }
func (s *Session) SetUsername(name string)   { s.Username = name }

func (s *Session) GetCurrentRecord() string   { return s.CurrentRecord }
func (s *Session) SetCurrentRecord(id string) { s.CurrentRecord = id }
func (s *Session) GetLastTurnCount() int      { return s.LastTurnCount }
func (s *Session) SetLastTurnCount(n int)     { s.LastTurnCount = n }

func (s *Session) SetRecordState(state interface{}) {
	if rec, ok := state.(*api.RecordResponse); ok {
		s.CurrentRecordState = rec
	}
}
