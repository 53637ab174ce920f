// FILE: internal/server/processor/command.go
package processor

import (
	"notation/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdParseText CommandType = iota
	CmdRenderActions
	CmdParseBatch
	CmdCreateRecord
	CmdGetRecord
	CmdListRecords
	CmdAppendTurn
	CmdUndoTurns
	CmdFinalizeRecord
	CmdDeleteRecord
)

// Command is a unified structure for all processor operations
type Command struct {
	Type     CommandType
	UserID   string
	RecordID string // For record-specific commands
	Args     any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewParseTextCommand(req core.ParseRequest) Command {
	return Command{
		Type: CmdParseText,
		Args: req,
	}
}

func NewRenderActionsCommand(req core.RenderRequest) Command {
	return Command{
		Type: CmdRenderActions,
		Args: req,
	}
}

func NewParseBatchCommand(req core.BatchParseRequest) Command {
	return Command{
		Type: CmdParseBatch,
		Args: req,
	}
}

func NewCreateRecordCommand(req core.CreateRecordRequest) Command {
	return Command{
		Type: CmdCreateRecord,
		Args: req,
	}
}

func NewGetRecordCommand(recordID string) Command {
	return Command{
		Type:     CmdGetRecord,
		RecordID: recordID,
	}
}

// ListFilter narrows record listings. Empty fields match everything.
type ListFilter struct {
	Game   string
	Status string
	Owner  string
}

func NewListRecordsCommand(filter ListFilter) Command {
	return Command{
		Type: CmdListRecords,
		Args: filter,
	}
}

func NewAppendTurnCommand(recordID string, req core.AppendTurnRequest) Command {
	return Command{
		Type:     CmdAppendTurn,
		RecordID: recordID,
		Args:     req,
	}
}

func NewUndoTurnsCommand(recordID string, req core.UndoRequest) Command {
	return Command{
		Type:     CmdUndoTurns,
		RecordID: recordID,
		Args:     req,
	}
}

func NewFinalizeRecordCommand(recordID string, req core.FinalizeRequest) Command {
	return Command{
		Type:     CmdFinalizeRecord,
		RecordID: recordID,
		Args:     req,
	}
}

func NewDeleteRecordCommand(recordID string) Command {
	return Command{
		Type:     CmdDeleteRecord,
		RecordID: recordID,
	}
}
