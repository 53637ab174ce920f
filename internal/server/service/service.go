package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"notation/action"
	"notation/internal/server/core"
	"notation/internal/server/record"
	"notation/internal/server/storage"

	"github.com/google/uuid"
)

const (
	MaxRecords         = 1000
	StaleRecordTTL     = 7 * 24 * time.Hour
	TokenTTL           = 7 * 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

// Service coordinates record state, user management, and storage
type Service struct {
	records   map[string]*record.Record
	mu        sync.RWMutex
	store     *storage.Store
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		records:   make(map[string]*record.Record),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for record changes
func (s *Service) RegisterWait(recordID string, turnCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(recordID, turnCount, ctx)
}

// CanCreateRecord checks if a new record can be created
func (s *Service) CanCreateRecord() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records) < MaxRecords
}

// GenerateRecordID creates a new unique record ID
func (s *Service) GenerateRecordID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Ensure UUID uniqueness (handle potential conflicts)
	for {
		id := uuid.New().String()
		if _, exists := s.records[id]; !exists {
			return id
		}
	}
}

// CreateRecord registers a new record
func (s *Service) CreateRecord(id, ownerID, title, game string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; exists {
		return fmt.Errorf("record %s already exists", id)
	}

	r := record.New(id, ownerID, title, game)
	s.records[id] = r

	// Persist if storage enabled
	if s.store != nil {
		s.store.InsertRecord(storage.RecordRow{
			RecordID:  id,
			OwnerID:   ownerID,
			Title:     title,
			Game:      game,
			Status:    r.Status().String(),
			Result:    "",
			CreatedAt: r.CreatedAt(),
			UpdatedAt: r.UpdatedAt(),
		})
	}

	return nil
}

// GetRecord retrieves a record by ID
func (s *Service) GetRecord(id string) (*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record not found: %s", id)
	}
	return r, nil
}

// ListRecords returns all loaded records, most recently updated first
func (s *Service) ListRecords() []*record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*record.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt().Equal(out[j].UpdatedAt()) {
			return out[i].ID() < out[j].ID()
		}
		return out[i].UpdatedAt().After(out[j].UpdatedAt())
	})

	return out
}

// AppendTurn commits a parsed turn to a record
func (s *Service) AppendTurn(id string, seq action.Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}

	t, err := r.AppendTurn(seq)
	if err != nil {
		return err
	}

	// Notify waiting clients about the new turn
	s.waiter.NotifyRecord(id, r.TurnCount())

	// Persist if storage enabled
	if s.store != nil {
		s.store.InsertTurn(storage.TurnRow{
			RecordID:    id,
			TurnNumber:  t.Number,
			Text:        t.Text,
			ActionCount: len(t.Sequence),
			PlayedAt:    r.UpdatedAt(),
		})
	}

	return nil
}

// UndoTurns removes the last turns of a record
func (s *Service) UndoTurns(id string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}

	originalCount := r.TurnCount()

	if err := r.UndoTurns(count); err != nil {
		return err
	}

	// Notify waiting clients about the undo
	s.waiter.NotifyRecord(id, r.TurnCount())

	// Delete undone turns from storage if enabled
	if s.store != nil {
		remaining := originalCount - count
		s.store.DeleteUndoneTurns(id, remaining)
	}

	return nil
}

// FinalizeRecord closes a record with an optional result label
func (s *Service) FinalizeRecord(id, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}

	if err := r.Finalize(result); err != nil {
		return err
	}

	// Notify waiting clients that the record closed
	s.waiter.NotifyRecord(id, r.TurnCount())

	// Persist if storage enabled
	if s.store != nil {
		s.store.UpdateRecordStatus(id, r.Status().String(), result)
	}

	return nil
}

// DeleteRecord removes a record from memory and storage
func (s *Service) DeleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record not found: %s", id)
	}

	// Notify and remove all waiters before deletion
	s.waiter.RemoveRecord(id)

	delete(s.records, id)

	if s.store != nil {
		s.store.DeleteRecord(id)
	}

	return nil
}

// LoadRecords restores persisted records into memory, re-parsing every
// stored turn. Turns that no longer parse are dropped with a warning so a
// damaged database does not block startup.
func (s *Service) LoadRecords() (int, error) {
	if s.store == nil {
		return 0, nil
	}

	rows, err := s.store.QueryRecords("", "")
	if err != nil {
		return 0, fmt.Errorf("failed to load records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, row := range rows {
		turnRows, err := s.store.QueryTurns(row.RecordID)
		if err != nil {
			log.Printf("reload: failed to load turns for record %s: %v", row.RecordID, err)
			continue
		}

		turns := make([]record.Turn, 0, len(turnRows))
		for _, tr := range turnRows {
			seq, err := action.ParseSequence(tr.Text)
			if err != nil {
				log.Printf("reload: dropping unparseable turn %d of record %s: %v",
					tr.TurnNumber, row.RecordID, err)
				continue
			}
			turns = append(turns, record.Turn{
				Number:   len(turns) + 1,
				Text:     seq.String(),
				Sequence: seq,
			})
		}

		s.records[row.RecordID] = record.Restore(
			row.RecordID, row.OwnerID, row.Title, row.Game,
			core.StatusFromString(row.Status), row.Result,
			turns, row.CreatedAt, row.UpdatedAt,
		)
		loaded++
	}

	return loaded, nil
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*record.Record)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob runs periodic cleanup of stale anonymous records
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupStale()
		}
	}
}

// cleanupStale drops anonymous records that have not been touched within
// StaleRecordTTL. Owned records are kept indefinitely.
func (s *Service) cleanupStale() {
	cutoff := time.Now().UTC().Add(-StaleRecordTTL)

	s.mu.Lock()
	var stale []string
	for id, r := range s.records {
		if r.OwnerID() == "" && r.UpdatedAt().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		s.waiter.RemoveRecord(id)
		delete(s.records, id)
		if s.store != nil {
			s.store.DeleteRecord(id)
		}
	}
	s.mu.Unlock()

	if len(stale) > 0 {
		log.Printf("cleanup: deleted %d stale anonymous records", len(stale))
	}
}
