// FILE: internal/server/processor/queue.go
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"notation/action"
)

// ParseTask contains one batch item and its response channel
type ParseTask struct {
	Index    int
	Text     string
	Response chan<- ParseResult
}

// ParseResult contains the outcome of parsing one batch item
type ParseResult struct {
	Index int
	Text  string
	Seq   action.Sequence
	Err   error
}

// ParseQueue fans batch parse requests out to a worker pool
type ParseQueue struct {
	tasks   chan ParseTask
	workers int
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewParseQueue creates a queue with specified worker count
func NewParseQueue(workerCount int) *ParseQueue {
	if workerCount < 1 {
		workerCount = 2 // Default
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &ParseQueue{
		tasks:   make(chan ParseTask, 256), // Buffered for queueing
		workers: workerCount,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

// start initializes the worker pool
func (q *ParseQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// worker processes parse tasks
func (q *ParseQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return // Channel closed
			}

			result := processTask(task)

			// Send result if receiver still listening
			select {
			case task.Response <- result:
			case <-time.After(100 * time.Millisecond):
				// Receiver abandoned, discard result
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// processTask parses a single batch item
func processTask(task ParseTask) ParseResult {
	result := ParseResult{
		Index: task.Index,
		Text:  task.Text,
	}

	seq, err := action.ParseSequence(task.Text)
	if err != nil {
		result.Err = err
		return result
	}

	result.Seq = seq
	return result
}

// Submit adds a task to the queue
func (q *ParseQueue) Submit(task ParseTask) error {
	select {
	case q.tasks <- task:
		return nil
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
		return fmt.Errorf("queue is full")
	}
}

// ParseAll submits every text and collects results in input order
func (q *ParseQueue) ParseAll(texts []string) []ParseResult {
	results := make([]ParseResult, len(texts))
	filled := make([]bool, len(texts))
	respChan := make(chan ParseResult, len(texts))

	submitted := 0
	for i, text := range texts {
		task := ParseTask{Index: i, Text: text, Response: respChan}
		if err := q.Submit(task); err != nil {
			results[i] = ParseResult{Index: i, Text: text, Err: err}
			filled[i] = true
			continue
		}
		submitted++
	}

	deadline := time.After(5 * time.Second)
	for n := 0; n < submitted; n++ {
		select {
		case res := <-respChan:
			results[res.Index] = res
			filled[res.Index] = true
		case <-deadline:
			// Worker pool wedged, report unfilled slots as timeouts
			for i := range results {
				if !filled[i] {
					results[i] = ParseResult{Index: i, Text: texts[i], Err: fmt.Errorf("parse timeout")}
				}
			}
			return results
		}
	}

	return results
}

// Shutdown gracefully stops the queue
func (q *ParseQueue) Shutdown(timeout time.Duration) error {
	q.cancel()
	close(q.tasks)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
