// FILE: internal/server/processor/processor_test.go
package processor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"notation/internal/server/core"
	"notation/internal/server/service"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-xx"))
	p := New(svc)
	t.Cleanup(func() {
		p.Close()
		svc.Shutdown(time.Second)
	})
	return p
}

func wantCode(t *testing.T, resp ProcessorResponse, code string) {
	t.Helper()
	if resp.Success {
		t.Fatalf("expected failure with code %s, got success: %+v", code, resp.Data)
	}
	if resp.Error == nil || resp.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", resp.Error, code)
	}
}

func recordData(t *testing.T, resp ProcessorResponse) core.RecordResponse {
	t.Helper()
	if !resp.Success {
		t.Fatalf("command failed: %+v", resp.Error)
	}
	data, ok := resp.Data.(core.RecordResponse)
	if !ok {
		t.Fatalf("Data is %T, want core.RecordResponse", resp.Data)
	}
	return data
}

func TestHandleParseText(t *testing.T) {
	p := newTestProcessor(t)

	resp := p.Execute(NewParseTextCommand(core.ParseRequest{Text: "e1~g1;h1~f1"}))
	if !resp.Success {
		t.Fatalf("parse failed: %+v", resp.Error)
	}
	data, ok := resp.Data.(core.ParseResponse)
	if !ok {
		t.Fatalf("Data is %T, want core.ParseResponse", resp.Data)
	}
	if data.Text != "e1~g1;h1~f1" {
		t.Errorf("Text = %q", data.Text)
	}
	if len(data.Actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(data.Actions))
	}
	for i, a := range data.Actions {
		if a.Kind != "special" {
			t.Errorf("action %d: Kind = %q, want special", i, a.Kind)
		}
	}

	for _, tt := range []struct {
		name string
		text string
	}{
		{"no operator", "e2e4"},
		{"unsafe charset", "e2 e4"},
		{"oversized", strings.Repeat("a", 513)},
		{"empty", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, p.Execute(NewParseTextCommand(core.ParseRequest{Text: tt.text})), core.ErrInvalidAction)
		})
	}
}

func TestHandleRenderActions(t *testing.T) {
	p := newTestProcessor(t)

	payloads := []core.ActionPayload{
		{Kind: "move", Source: "e2", Destination: "e4"},
		{Kind: "drop", Piece: "P", Destination: "d5"},
		{Kind: "modify", Destination: "c7", Piece: "+S"},
	}
	resp := p.Execute(NewRenderActionsCommand(core.RenderRequest{Actions: payloads}))
	if !resp.Success {
		t.Fatalf("render failed: %+v", resp.Error)
	}
	data, ok := resp.Data.(core.RenderResponse)
	if !ok {
		t.Fatalf("Data is %T, want core.RenderResponse", resp.Data)
	}
	if data.Text != "e2-e4;P*d5;c7=+S" {
		t.Errorf("Text = %q", data.Text)
	}

	bad := []core.ActionPayload{{Kind: "teleport", Destination: "e4"}}
	wantCode(t, p.Execute(NewRenderActionsCommand(core.RenderRequest{Actions: bad})), core.ErrInvalidAction)

	wantCode(t, p.Execute(NewRenderActionsCommand(core.RenderRequest{})), core.ErrInvalidRequest)
}

func TestHandleParseBatch(t *testing.T) {
	p := newTestProcessor(t)

	texts := []string{"e2-e4", "zzz", "P*e5"}
	resp := p.Execute(NewParseBatchCommand(core.BatchParseRequest{Texts: texts}))
	if !resp.Success {
		t.Fatalf("batch failed: %+v", resp.Error)
	}
	data, ok := resp.Data.(core.BatchParseResponse)
	if !ok {
		t.Fatalf("Data is %T, want core.BatchParseResponse", resp.Data)
	}
	if len(data.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(data.Results))
	}

	wantValid := []bool{true, false, true}
	for i, res := range data.Results {
		if res.Valid != wantValid[i] {
			t.Errorf("result %d (%q): Valid = %v, want %v", i, texts[i], res.Valid, wantValid[i])
		}
		if res.Valid && res.Text != texts[i] {
			t.Errorf("result %d: Text = %q, want %q", i, res.Text, texts[i])
		}
		if !res.Valid && (res.Error == nil || res.Error.Code != core.ErrInvalidAction) {
			t.Errorf("result %d: Error = %+v", i, res.Error)
		}
	}
}

func TestRecordLifecycle(t *testing.T) {
	p := newTestProcessor(t)

	created := recordData(t, p.Execute(NewCreateRecordCommand(core.CreateRecordRequest{Title: "Casual", Game: "chess"})))
	if created.RecordID == "" || created.Status != "open" || len(created.Turns) != 0 {
		t.Fatalf("created = %+v", created)
	}
	id := created.RecordID

	got := recordData(t, p.Execute(NewGetRecordCommand(id)))
	if got.RecordID != id || got.Title != "Casual" || got.Game != "chess" {
		t.Errorf("got = %+v", got)
	}

	appended := recordData(t, p.Execute(NewAppendTurnCommand(id, core.AppendTurnRequest{Text: "e2-e4"})))
	if len(appended.Turns) != 1 || appended.LastTurn == nil || appended.LastTurn.Number != 1 {
		t.Fatalf("after append: %+v", appended)
	}
	if appended.LastTurn.Text != "e2-e4" || appended.LastTurn.Actions != 1 {
		t.Errorf("LastTurn = %+v", appended.LastTurn)
	}

	undone := recordData(t, p.Execute(NewUndoTurnsCommand(id, core.UndoRequest{Count: 1})))
	if len(undone.Turns) != 0 || undone.LastTurn != nil {
		t.Errorf("after undo: %+v", undone)
	}

	finalized := recordData(t, p.Execute(NewFinalizeRecordCommand(id, core.FinalizeRequest{Result: "1-0"})))
	if finalized.Status != "final" || finalized.Result != "1-0" {
		t.Errorf("after finalize: %+v", finalized)
	}

	wantCode(t, p.Execute(NewAppendTurnCommand(id, core.AppendTurnRequest{Text: "d2-d4"})), core.ErrRecordFinal)

	del := p.Execute(NewDeleteRecordCommand(id))
	if !del.Success {
		t.Fatalf("delete failed: %+v", del.Error)
	}

	wantCode(t, p.Execute(NewGetRecordCommand(id)), core.ErrRecordNotFound)
}

func TestUndoDefaultsToOne(t *testing.T) {
	p := newTestProcessor(t)

	id := recordData(t, p.Execute(NewCreateRecordCommand(core.CreateRecordRequest{}))).RecordID
	recordData(t, p.Execute(NewAppendTurnCommand(id, core.AppendTurnRequest{Text: "e2-e4"})))
	recordData(t, p.Execute(NewAppendTurnCommand(id, core.AppendTurnRequest{Text: "e7-e5"})))

	undone := recordData(t, p.Execute(Command{Type: CmdUndoTurns, RecordID: id}))
	if len(undone.Turns) != 1 {
		t.Errorf("got %d turns after default undo, want 1", len(undone.Turns))
	}
}

func TestOwnership(t *testing.T) {
	p := newTestProcessor(t)

	cmd := NewCreateRecordCommand(core.CreateRecordRequest{Title: "Owned"})
	cmd.UserID = "user-a"
	id := recordData(t, p.Execute(cmd)).RecordID

	turn := NewAppendTurnCommand(id, core.AppendTurnRequest{Text: "e2-e4"})
	turn.UserID = "user-b"
	wantCode(t, p.Execute(turn), core.ErrUnauthorized)

	turn.UserID = ""
	wantCode(t, p.Execute(turn), core.ErrUnauthorized)

	turn.UserID = "user-a"
	if resp := p.Execute(turn); !resp.Success {
		t.Fatalf("owner append failed: %+v", resp.Error)
	}

	del := NewDeleteRecordCommand(id)
	del.UserID = "user-b"
	wantCode(t, p.Execute(del), core.ErrUnauthorized)

	// Ownerless records stay writable by everyone.
	anon := recordData(t, p.Execute(NewCreateRecordCommand(core.CreateRecordRequest{}))).RecordID
	shared := NewAppendTurnCommand(anon, core.AppendTurnRequest{Text: "d2-d4"})
	shared.UserID = "user-b"
	if resp := p.Execute(shared); !resp.Success {
		t.Fatalf("append to ownerless record failed: %+v", resp.Error)
	}
}

func TestListFilters(t *testing.T) {
	p := newTestProcessor(t)

	chessCmd := NewCreateRecordCommand(core.CreateRecordRequest{Game: "chess"})
	chessCmd.UserID = "user-a"
	recordData(t, p.Execute(chessCmd))

	recordData(t, p.Execute(NewCreateRecordCommand(core.CreateRecordRequest{Game: "shogi"})))

	doneID := recordData(t, p.Execute(NewCreateRecordCommand(core.CreateRecordRequest{Game: "chess"}))).RecordID
	recordData(t, p.Execute(NewFinalizeRecordCommand(doneID, core.FinalizeRequest{})))

	list := func(filter ListFilter) []core.RecordSummary {
		t.Helper()
		resp := p.Execute(NewListRecordsCommand(filter))
		if !resp.Success {
			t.Fatalf("list failed: %+v", resp.Error)
		}
		return resp.Data.(core.RecordListResponse).Records
	}

	if got := list(ListFilter{}); len(got) != 3 {
		t.Errorf("unfiltered list has %d records, want 3", len(got))
	}
	if got := list(ListFilter{Game: "chess"}); len(got) != 2 {
		t.Errorf("game filter matched %d records, want 2", len(got))
	}
	if got := list(ListFilter{Status: "final"}); len(got) != 1 || got[0].RecordID != doneID {
		t.Errorf("status filter = %+v", got)
	}
	if got := list(ListFilter{Owner: "user-a"}); len(got) != 1 || got[0].Game != "chess" {
		t.Errorf("owner filter = %+v", got)
	}
	if got := list(ListFilter{Game: "xiangqi"}); len(got) != 0 {
		t.Errorf("unmatched filter returned %d records", len(got))
	}
}

func TestCreateRecordLimit(t *testing.T) {
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-xx"))
	p := New(svc)
	t.Cleanup(func() {
		p.Close()
		svc.Shutdown(time.Second)
	})

	for i := 0; i < service.MaxRecords; i++ {
		if err := svc.CreateRecord(fmt.Sprintf("rec-%04d", i), "", "", ""); err != nil {
			t.Fatalf("CreateRecord %d: %v", i, err)
		}
	}

	wantCode(t, p.Execute(NewCreateRecordCommand(core.CreateRecordRequest{})), core.ErrResourceLimit)
}
