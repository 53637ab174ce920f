// FILE: internal/server/processor/processor.go

package processor

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"notation/action"
	"notation/internal/server/core"
	"notation/internal/server/record"
	"notation/internal/server/service"
)

const (
	maxTextLength = 512
	batchWorkers  = 4
)

// Action text charset: coordinate labels, piece markers, operators, delimiter
var textPattern = regexp.MustCompile(`^[a-zA-Z0-9'+\-~*.;=]+$`)

// Processor handles command execution and coordinates between transport and service layers
type Processor struct {
	svc   *service.Service
	queue *ParseQueue
}

// New creates a processor with its batch worker pool
func New(svc *service.Service) *Processor {
	return &Processor{
		svc:   svc,
		queue: NewParseQueue(batchWorkers),
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdParseText:
		return p.handleParseText(cmd)
	case CmdRenderActions:
		return p.handleRenderActions(cmd)
	case CmdParseBatch:
		return p.handleParseBatch(cmd)
	case CmdCreateRecord:
		return p.handleCreateRecord(cmd)
	case CmdGetRecord:
		return p.handleGetRecord(cmd)
	case CmdListRecords:
		return p.handleListRecords(cmd)
	case CmdAppendTurn:
		return p.handleAppendTurn(cmd)
	case CmdUndoTurns:
		return p.handleUndoTurns(cmd)
	case CmdFinalizeRecord:
		return p.handleFinalizeRecord(cmd)
	case CmdDeleteRecord:
		return p.handleDeleteRecord(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isTextSafe screens action text before it reaches the parser or storage:
// no control characters, bounded length, notation charset only
func (p *Processor) isTextSafe(text string) bool {
	if len(text) == 0 || len(text) > maxTextLength {
		return false
	}

	// Check for control characters
	for _, r := range text {
		if unicode.IsControl(r) {
			return false
		}
	}

	return textPattern.MatchString(text)
}

// handleParseText parses one turn of action text
func (p *Processor) handleParseText(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ParseRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if !p.isTextSafe(args.Text) {
		return p.errorResponse("action text contains invalid characters", core.ErrInvalidAction)
	}

	seq, err := action.ParseSequence(args.Text)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("invalid action text: %v", err), core.ErrInvalidAction)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.ParseResponse{
			Text:    seq.String(),
			Actions: core.PayloadsFromSequence(seq),
		},
	}
}

// handleRenderActions renders structured actions back to canonical text
func (p *Processor) handleRenderActions(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.RenderRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	seq, err := core.SequenceFromPayloads(args.Actions)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("invalid actions: %v", err), core.ErrInvalidAction)
	}
	if len(seq) == 0 {
		return p.errorResponse("no actions to render", core.ErrInvalidRequest)
	}

	return ProcessorResponse{
		Success: true,
		Data:    core.RenderResponse{Text: seq.String()},
	}
}

// handleParseBatch fans a batch of texts out to the worker pool
func (p *Processor) handleParseBatch(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.BatchParseRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	results := p.queue.ParseAll(args.Texts)

	resp := core.BatchParseResponse{
		Results: make([]core.BatchResult, len(results)),
	}
	for i, res := range results {
		item := core.BatchResult{Text: res.Text}
		if res.Err != nil {
			item.Error = &core.ErrorResponse{
				Error:   "invalid action text",
				Code:    core.ErrInvalidAction,
				Details: res.Err.Error(),
			}
		} else {
			item.Valid = true
			item.Text = res.Seq.String()
			item.Actions = core.PayloadsFromSequence(res.Seq)
		}
		resp.Results[i] = item
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleCreateRecord creates a new record
func (p *Processor) handleCreateRecord(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateRecordRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if !p.svc.CanCreateRecord() {
		return p.errorResponse("record limit reached", core.ErrResourceLimit)
	}

	recordID := p.svc.GenerateRecordID()

	if err := p.svc.CreateRecord(recordID, cmd.UserID, args.Title, args.Game); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create record: %v", err), core.ErrInternalError)
	}

	r, err := p.svc.GetRecord(recordID)
	if err != nil {
		return p.errorResponse("record creation failed", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildRecordResponse(recordID, r),
	}
}

// handleGetRecord retrieves record state
func (p *Processor) handleGetRecord(cmd Command) ProcessorResponse {
	r, err := p.svc.GetRecord(cmd.RecordID)
	if err != nil {
		return p.errorResponse("record not found", core.ErrRecordNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildRecordResponse(cmd.RecordID, r),
	}
}

// handleListRecords returns summaries of all loaded records, narrowed by
// the optional filter
func (p *Processor) handleListRecords(cmd Command) ProcessorResponse {
	filter := ListFilter{}
	if cmd.Args != nil {
		if f, ok := cmd.Args.(ListFilter); ok {
			filter = f
		}
	}

	records := p.svc.ListRecords()

	resp := core.RecordListResponse{
		Records: make([]core.RecordSummary, 0, len(records)),
	}
	for _, r := range records {
		if filter.Game != "" && r.Game() != filter.Game {
			continue
		}
		if filter.Status != "" && r.Status().String() != filter.Status {
			continue
		}
		if filter.Owner != "" && r.OwnerID() != filter.Owner {
			continue
		}
		resp.Records = append(resp.Records, core.RecordSummary{
			RecordID: r.ID(),
			Title:    r.Title(),
			Game:     r.Game(),
			Status:   r.Status().String(),
			Turns:    r.TurnCount(),
		})
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleAppendTurn parses and commits one turn
func (p *Processor) handleAppendTurn(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.AppendTurnRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	r, err := p.svc.GetRecord(cmd.RecordID)
	if err != nil {
		return p.errorResponse("record not found", core.ErrRecordNotFound)
	}

	if resp, ok := p.authorizeWrite(r, cmd.UserID); !ok {
		return resp
	}

	if r.Status() == core.StatusFinal {
		return p.errorResponse("record is final", core.ErrRecordFinal)
	}

	if !p.isTextSafe(args.Text) {
		return p.errorResponse("action text contains invalid characters", core.ErrInvalidAction)
	}

	seq, err := action.ParseSequence(args.Text)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("invalid action text: %v", err), core.ErrInvalidAction)
	}

	if err := p.svc.AppendTurn(cmd.RecordID, seq); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return p.errorResponse("record not found", core.ErrRecordNotFound)
		}
		if strings.Contains(err.Error(), "final") {
			return p.errorResponse("record is final", core.ErrRecordFinal)
		}
		return p.errorResponse(fmt.Sprintf("failed to append turn: %v", err), core.ErrInternalError)
	}

	r, _ = p.svc.GetRecord(cmd.RecordID)

	return ProcessorResponse{
		Success: true,
		Data:    p.buildRecordResponse(cmd.RecordID, r),
	}
}

// handleUndoTurns removes committed turns from the tail of a record
func (p *Processor) handleUndoTurns(cmd Command) ProcessorResponse {
	r, err := p.svc.GetRecord(cmd.RecordID)
	if err != nil {
		return p.errorResponse("record not found", core.ErrRecordNotFound)
	}

	if resp, ok := p.authorizeWrite(r, cmd.UserID); !ok {
		return resp
	}

	args := core.UndoRequest{Count: 1}
	if cmd.Args != nil {
		if req, ok := cmd.Args.(core.UndoRequest); ok {
			args = req
		}
	}

	if err := p.svc.UndoTurns(cmd.RecordID, args.Count); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return p.errorResponse("record not found", core.ErrRecordNotFound)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	r, _ = p.svc.GetRecord(cmd.RecordID)

	return ProcessorResponse{
		Success: true,
		Data:    p.buildRecordResponse(cmd.RecordID, r),
	}
}

// handleFinalizeRecord closes a record with an optional result
func (p *Processor) handleFinalizeRecord(cmd Command) ProcessorResponse {
	args := core.FinalizeRequest{}
	if cmd.Args != nil {
		if req, ok := cmd.Args.(core.FinalizeRequest); ok {
			args = req
		}
	}

	r, err := p.svc.GetRecord(cmd.RecordID)
	if err != nil {
		return p.errorResponse("record not found", core.ErrRecordNotFound)
	}

	if resp, ok := p.authorizeWrite(r, cmd.UserID); !ok {
		return resp
	}

	if err := p.svc.FinalizeRecord(cmd.RecordID, args.Result); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return p.errorResponse("record not found", core.ErrRecordNotFound)
		}
		return p.errorResponse("record is already final", core.ErrRecordFinal)
	}

	r, _ = p.svc.GetRecord(cmd.RecordID)

	return ProcessorResponse{
		Success: true,
		Data:    p.buildRecordResponse(cmd.RecordID, r),
	}
}

// handleDeleteRecord removes a record
func (p *Processor) handleDeleteRecord(cmd Command) ProcessorResponse {
	r, err := p.svc.GetRecord(cmd.RecordID)
	if err != nil {
		return p.errorResponse("record not found", core.ErrRecordNotFound)
	}

	if resp, ok := p.authorizeWrite(r, cmd.UserID); !ok {
		return resp
	}

	if err := p.svc.DeleteRecord(cmd.RecordID); err != nil {
		return p.errorResponse("record not found", core.ErrRecordNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// authorizeWrite rejects mutation of owned records by anyone but the owner.
// Ownerless records are writable by any caller.
func (p *Processor) authorizeWrite(r *record.Record, userID string) (ProcessorResponse, bool) {
	if r.OwnerID() != "" && r.OwnerID() != userID {
		return p.errorResponse("record belongs to another user", core.ErrUnauthorized), false
	}
	return ProcessorResponse{}, true
}

// buildRecordResponse constructs standard record response
func (p *Processor) buildRecordResponse(recordID string, r *record.Record) core.RecordResponse {
	turns := r.Turns()

	resp := core.RecordResponse{
		RecordID: recordID,
		Title:    r.Title(),
		Game:     r.Game(),
		Status:   r.Status().String(),
		Result:   r.Result(),
		Turns:    make([]core.TurnInfo, len(turns)),
	}

	for i, t := range turns {
		resp.Turns[i] = core.TurnInfo{
			Number:  t.Number,
			Text:    t.Text,
			Actions: len(t.Sequence),
		}
	}

	if len(resp.Turns) > 0 {
		last := resp.Turns[len(resp.Turns)-1]
		resp.LastTurn = &last
	}

	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close cleans up resources
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
