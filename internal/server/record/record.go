// FILE: internal/server/record/record.go
package record

import (
	"fmt"
	"time"

	"notation/action"
	"notation/internal/server/core"
)

// Turn is one committed turn of a record: a parsed action sequence plus its
// canonical rendering. Text is always the canonical form, regardless of how
// the turn was originally spelled on submission.
type Turn struct {
	Number   int
	Text     string
	Sequence action.Sequence
}

// Record is an append-only log of turns for one played game. Records carry
// no board state; they only guarantee that every stored turn is well-formed
// notation.
type Record struct {
	id        string
	ownerID   string // empty for anonymous records
	title     string
	game      string
	status    core.Status
	result    string
	turns     []Turn
	createdAt time.Time
	updatedAt time.Time
}

func New(id, ownerID, title, game string) *Record {
	now := time.Now().UTC()
	return &Record{
		id:        id,
		ownerID:   ownerID,
		title:     title,
		game:      game,
		status:    core.StatusOpen,
		createdAt: now,
		updatedAt: now,
	}
}

// Restore rebuilds a record from persisted state. Turns must already be in
// committed order.
func Restore(id, ownerID, title, game string, status core.Status, result string, turns []Turn, createdAt, updatedAt time.Time) *Record {
	return &Record{
		id:        id,
		ownerID:   ownerID,
		title:     title,
		game:      game,
		status:    status,
		result:    result,
		turns:     turns,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Record) ID() string           { return r.id }
func (r *Record) OwnerID() string      { return r.ownerID }
func (r *Record) Title() string        { return r.title }
func (r *Record) Game() string         { return r.game }
func (r *Record) Status() core.Status  { return r.status }
func (r *Record) Result() string       { return r.result }
func (r *Record) CreatedAt() time.Time { return r.createdAt }
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

func (r *Record) TurnCount() int {
	return len(r.turns)
}

// Turns returns a copy of the committed turns.
func (r *Record) Turns() []Turn {
	out := make([]Turn, len(r.turns))
	copy(out, r.turns)
	return out
}

// LastTurn returns the most recent turn, or nil for an empty record.
func (r *Record) LastTurn() *Turn {
	if len(r.turns) == 0 {
		return nil
	}
	t := r.turns[len(r.turns)-1]
	return &t
}

// AppendTurn commits a parsed sequence as the next turn. The stored text is
// the canonical rendering of the sequence.
func (r *Record) AppendTurn(seq action.Sequence) (Turn, error) {
	if r.status == core.StatusFinal {
		return Turn{}, fmt.Errorf("record %s is final", r.id)
	}
	if len(seq) == 0 {
		return Turn{}, fmt.Errorf("empty turn")
	}

	t := Turn{
		Number:   len(r.turns) + 1,
		Text:     seq.String(),
		Sequence: seq,
	}
	r.turns = append(r.turns, t)
	r.updatedAt = time.Now().UTC()
	return t, nil
}

// UndoTurns removes the last count turns. Undoing a final record reopens it
// and clears the result.
func (r *Record) UndoTurns(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	available := len(r.turns)
	if available < count {
		return fmt.Errorf("cannot undo %d turns: only %d turns available", count, available)
	}

	r.turns = r.turns[:available-count]
	r.status = core.StatusOpen
	r.result = ""
	r.updatedAt = time.Now().UTC()
	return nil
}

// Finalize closes the record with an optional result label.
func (r *Record) Finalize(result string) error {
	if r.status == core.StatusFinal {
		return fmt.Errorf("record %s is already final", r.id)
	}
	r.status = core.StatusFinal
	r.result = result
	r.updatedAt = time.Now().UTC()
	return nil
}

// Texts returns the canonical text of each committed turn in order.
func (r *Record) Texts() []string {
	texts := make([]string, len(r.turns))
	for i, t := range r.turns {
		texts[i] = t.Text
	}
	return texts
}
