// FILE: internal/client/commands/record.go
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"notation/internal/client/api"
	"notation/internal/client/display"
)

func (r *Registry) registerRecordCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new record",
		Usage:       "new",
		Handler:     newRecordHandler,
	})

	r.Register(&Command{
		Name:        "open",
		ShortName:   "j",
		Description: "Open/set current record ID",
		Usage:       "open <recordId>",
		Handler:     openRecordHandler,
	})

	r.Register(&Command{
		Name:        "turn",
		ShortName:   "t",
		Description: "Append a turn to the current record",
		Usage:       "turn <text>",
		Handler:     turnHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo turns",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show record history",
		Usage:       "show",
		Handler:     showRecordHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw record JSON",
		Usage:       "state",
		Handler:     recordStateHandler,
	})

	r.Register(&Command{
		Name:        "finalize",
		ShortName:   "f",
		Description: "Close the current record",
		Usage:       "finalize [result]",
		Handler:     finalizeHandler,
	})

	r.Register(&Command{
		Name:        "list",
		ShortName:   "ls",
		Description: "List all records",
		Usage:       "list",
		Handler:     listRecordsHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a record",
		Usage:       "delete [recordId]",
		Handler:     deleteRecordHandler,
	})

	r.Register(&Command{
		Name:        "watch",
		ShortName:   "w",
		Description: "Long-poll for record updates",
		Usage:       "watch",
		Handler:     watchHandler,
	})
}

func newRecordHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(os.Stdin)
	c := s.GetClient().(*api.Client)

	fmt.Println("\n" + display.Cyan + "Creating new record..." + display.Reset)

	fmt.Print(display.Yellow + "Title (optional): " + display.Reset)
	scanner.Scan()
	title := strings.TrimSpace(scanner.Text())

	fmt.Print(display.Yellow + "Game label (optional, e.g. chess): " + display.Reset)
	scanner.Scan()
	game := strings.TrimSpace(scanner.Text())

	req := &api.CreateRecordRequest{
		Title: title,
		Game:  game,
	}

	resp, err := c.CreateRecord(req)
	if err != nil {
		return err
	}

	s.SetCurrentRecord(resp.RecordID)
	s.SetLastTurnCount(len(resp.Turns))
	s.SetRecordState(resp)

	fmt.Printf("%sRecord created: %s%s\n", display.Green, resp.RecordID, display.Reset)
	fmt.Printf("%sCurrent record set to: %s%s\n", display.Cyan, resp.RecordID, display.Reset)

	return nil
}

func openRecordHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: open <recordId>")
	}

	recordID := args[0]
	c := s.GetClient().(*api.Client)

	// Verify record exists
	resp, err := c.GetRecord(recordID)
	if err != nil {
		return err
	}

	s.SetCurrentRecord(recordID)
	s.SetLastTurnCount(len(resp.Turns))
	s.SetRecordState(resp)

	fmt.Printf("%sOpened record: %s%s\n", display.Green, recordID, display.Reset)
	fmt.Printf("Status: %s | Turns: %d\n", display.ColorForStatus(resp.Status), len(resp.Turns))

	return nil
}

func turnHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: turn <text>")
	}

	recordID := s.GetCurrentRecord()
	if recordID == "" {
		return fmt.Errorf("no current record, use 'new' or 'open <recordId>'")
	}

	c := s.GetClient().(*api.Client)

	resp, err := c.AppendTurn(recordID, args[0])
	if err != nil {
		return err
	}

	s.SetLastTurnCount(len(resp.Turns))
	s.SetRecordState(resp)
	fmt.Printf("%sTurn accepted%s\n", display.Green, display.Reset)

	if resp.LastTurn != nil {
		fmt.Printf("Turn %d: ", resp.LastTurn.Number)
		display.RenderActionText(resp.LastTurn.Text)
	}

	return nil
}

func undoHandler(s Session, args []string) error {
	recordID := s.GetCurrentRecord()
	if recordID == "" {
		return fmt.Errorf("no current record, use 'new' or 'open <recordId>'")
	}

	count := 1
	if len(args) > 0 {
		var err error
		count, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.UndoTurns(recordID, count)
	if err != nil {
		return err
	}

	s.SetLastTurnCount(len(resp.Turns))
	s.SetRecordState(resp)
	fmt.Printf("%sUndid %d turn(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func showRecordHandler(s Session, args []string) error {
	recordID := s.GetCurrentRecord()
	if recordID == "" {
		return fmt.Errorf("no current record, use 'new' or 'open <recordId>'")
	}

	c := s.GetClient().(*api.Client)

	resp, err := c.GetRecord(recordID)
	if err != nil {
		return err
	}

	s.SetLastTurnCount(len(resp.Turns))
	s.SetRecordState(resp)

	// Display record header
	fmt.Println()
	title := resp.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("%s%s%s", display.Cyan, title, display.Reset)
	if resp.Game != "" {
		fmt.Printf(" [%s]", resp.Game)
	}
	fmt.Printf(" - %s", display.ColorForStatus(resp.Status))
	if resp.Result != "" {
		fmt.Printf(" (%s)", resp.Result)
	}
	fmt.Println()

	// Display turn history
	if len(resp.Turns) == 0 {
		fmt.Println("No turns yet")
		return nil
	}

	for _, t := range resp.Turns {
		fmt.Printf("%3d. ", t.Number)
		display.RenderActionText(t.Text)
	}

	fmt.Printf("\nTurns: %d\n", len(resp.Turns))

	return nil
}

func recordStateHandler(s Session, args []string) error {
	recordID := s.GetCurrentRecord()
	if recordID == "" {
		return fmt.Errorf("no current record, use 'new' or 'open <recordId>'")
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.GetRecord(recordID)
	if err != nil {
		return err
	}

	s.SetLastTurnCount(len(resp.Turns))

	// Pretty print JSON
	fmt.Printf("%sRecord State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(resp)

	return nil
}

func finalizeHandler(s Session, args []string) error {
	recordID := s.GetCurrentRecord()
	if recordID == "" {
		return fmt.Errorf("no current record, use 'new' or 'open <recordId>'")
	}

	result := strings.Join(args, " ")

	c := s.GetClient().(*api.Client)
	resp, err := c.FinalizeRecord(recordID, result)
	if err != nil {
		return err
	}

	s.SetRecordState(resp)
	fmt.Printf("%sRecord finalized%s", display.Green, display.Reset)
	if resp.Result != "" {
		fmt.Printf(" (%s)", resp.Result)
	}
	fmt.Println()
	return nil
}

func listRecordsHandler(s Session, args []string) error {
	c := s.GetClient().(*api.Client)

	resp, err := c.ListRecords()
	if err != nil {
		return err
	}

	if len(resp.Records) == 0 {
		fmt.Println("No records")
		return nil
	}

	for _, r := range resp.Records {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s%s%s  %-20s %s turns:%d\n",
			display.White, r.RecordID[:8], display.Reset,
			title, display.ColorForStatus(r.Status), r.Turns)
	}

	fmt.Printf("\nTotal: %d record(s)\n", len(resp.Records))
	return nil
}

func deleteRecordHandler(s Session, args []string) error {
	recordID := s.GetCurrentRecord()
	if len(args) > 0 {
		recordID = args[0]
	}

	if recordID == "" {
		return fmt.Errorf("specify record ID or set current record")
	}

	c := s.GetClient().(*api.Client)
	err := c.DeleteRecord(recordID)
	if err != nil {
		return err
	}

	if recordID == s.GetCurrentRecord() {
		s.SetCurrentRecord("")
		s.SetLastTurnCount(0)
	}

	fmt.Printf("%sRecord deleted: %s%s\n", display.Green, recordID, display.Reset)
	return nil
}

func watchHandler(s Session, args []string) error {
	recordID := s.GetCurrentRecord()
	if recordID == "" {
		return fmt.Errorf("no current record, use 'new' or 'open <recordId>'")
	}

	c := s.GetClient().(*api.Client)
	turnCount := s.GetLastTurnCount()

	fmt.Printf("%sLong-polling for updates (turn count: %d)...%s\n",
		display.Cyan, turnCount, display.Reset)
	fmt.Printf("%sThis may take up to 25 seconds%s\n", display.Cyan, display.Reset)

	resp, err := c.GetRecordWithPoll(recordID, turnCount)
	if err != nil {
		return err
	}

	s.SetLastTurnCount(len(resp.Turns))
	s.SetRecordState(resp)

	if len(resp.Turns) > turnCount {
		fmt.Printf("%sRecord updated! New turns detected%s\n", display.Green, display.Reset)
		if resp.LastTurn != nil {
			fmt.Printf("Last turn: %s\n", resp.LastTurn.Text)
		}
	} else {
		fmt.Printf("%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}

	return nil
}
