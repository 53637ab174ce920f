// FILE: internal/server/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second

	// WaitChannelBuffer size for notification channels
	WaitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting for record changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // recordID → waiting clients
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for record updates
type WaitRequest struct {
	TurnCount int             // Last known turn count
	Notify    chan struct{}   // Buffered channel for notifications
	Timer     *time.Timer     // Timeout timer
	Context   context.Context // Client connection context
	RecordID  string          // Record being watched
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client to wait for record changes
func (w *WaitRegistry) RegisterWait(recordID string, turnCount int, ctx context.Context) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Create wait request
	req := &WaitRequest{
		TurnCount: turnCount,
		Notify:    make(chan struct{}, WaitChannelBuffer),
		Context:   ctx,
		RecordID:  recordID,
	}

	// Setup timeout timer
	req.Timer = time.AfterFunc(WaitTimeout, func() {
		w.handleTimeout(req)
	})

	// Add to waiters map
	w.waiters[recordID] = append(w.waiters[recordID], req)

	// Setup cleanup on context cancellation
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
			w.removeWaiter(recordID, req)
		case <-req.Notify:
			// Notification received
			req.Timer.Stop()
			w.removeWaiter(recordID, req)
		case <-w.shutdown:
			// Server shutting down
			req.Timer.Stop()
			close(req.Notify)
		}
	}()

	return req.Notify
}

// NotifyRecord notifies all clients waiting on a record about a change
func (w *WaitRegistry) NotifyRecord(recordID string, currentTurnCount int) {
	w.mu.RLock()
	waitList := w.waiters[recordID]
	w.mu.RUnlock()

	if len(waitList) == 0 {
		return
	}

	// Non-blocking notification to all waiters
	for _, req := range waitList {
		// Only notify if turn count changed
		if req.TurnCount != currentTurnCount {
			select {
			case req.Notify <- struct{}{}:
				// Notification sent
			default:
				// Channel full or closed, skip slow client
			}
		}
	}
}

// RemoveRecord removes all waiters for a record (called before deletion)
func (w *WaitRegistry) RemoveRecord(recordID string) {
	w.mu.Lock()
	waitList := w.waiters[recordID]
	delete(w.waiters, recordID)
	w.mu.Unlock()

	// Notify all waiters that record is gone
	for _, req := range waitList {
		select {
		case req.Notify <- struct{}{}:
		default:
		}
	}
}

// Shutdown gracefully shuts down the wait registry
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	// Wait for all goroutines with timeout
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("http wait registry shutdown failed")
	}
}

// handleTimeout handles wait request timeout
func (w *WaitRegistry) handleTimeout(req *WaitRequest) {
	// Send timeout notification
	select {
	case req.Notify <- struct{}{}:
		// Timeout notification sent
	default:
		// Channel full or closed
	}
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(recordID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[recordID]
	for i, waiter := range waitList {
		if waiter == req {
			// Remove from slice
			w.waiters[recordID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	// Clean up empty entries
	if len(w.waiters[recordID]) == 0 {
		delete(w.waiters, recordID)
	}

	// Stop timer if still running
	req.Timer.Stop()
}
