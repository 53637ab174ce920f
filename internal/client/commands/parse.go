// FILE: internal/client/commands/parse.go
package commands

import (
	"fmt"

	"notation/action"
	"notation/internal/client/api"
	"notation/internal/client/display"
)

func (r *Registry) registerParseCommands() {
	r.Register(&Command{
		Name:        "parse",
		ShortName:   "p",
		Description: "Parse one turn of action text",
		Usage:       "parse <text>",
		Handler:     parseHandler,
	})

	r.Register(&Command{
		Name:        "render",
		ShortName:   "=",
		Description: "Round-trip text through parse and render",
		Usage:       "render <text>",
		Handler:     renderHandler,
	})

	r.Register(&Command{
		Name:        "batch",
		ShortName:   "b",
		Description: "Parse several texts in one request",
		Usage:       "batch <text> [text...]",
		Handler:     batchHandler,
	})

	r.Register(&Command{
		Name:        "check",
		ShortName:   "c",
		Description: "Validate text locally, no server",
		Usage:       "check <text> [text...]",
		Handler:     checkHandler,
	})

	r.Register(&Command{
		Name:        "explain",
		ShortName:   "ex",
		Description: "Describe each action locally, no server",
		Usage:       "explain <text>",
		Handler:     explainHandler,
	})
}

// describeAction builds a one-line human description of a parsed action
func describeAction(a api.ActionPayload) string {
	switch a.Kind {
	case "move", "capture", "special":
		desc := fmt.Sprintf("%s -> %s", a.Source, a.Destination)
		if a.Transformation != "" {
			desc += fmt.Sprintf(" = %s", a.Transformation)
		}
		return desc
	case "static_capture":
		return fmt.Sprintf("at %s", a.Destination)
	case "drop", "drop_capture":
		pc := a.Piece
		if pc == "" {
			pc = "(any)"
		}
		desc := fmt.Sprintf("%s at %s", pc, a.Destination)
		if a.Transformation != "" {
			desc += fmt.Sprintf(" = %s", a.Transformation)
		}
		return desc
	case "modify":
		return fmt.Sprintf("%s becomes %s", a.Destination, a.Piece)
	default:
		return ""
	}
}

func printActions(actions []api.ActionPayload) {
	for i, a := range actions {
		fmt.Printf("  %d. %s%-14s%s %s\n", i+1, display.Magenta, a.Kind, display.Reset, describeAction(a))
	}
}

func parseHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: parse <text>")
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.Parse(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%sCanonical:%s ", display.Cyan, display.Reset)
	display.RenderActionText(resp.Text)
	printActions(resp.Actions)

	return nil
}

func renderHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: render <text>")
	}

	c := s.GetClient().(*api.Client)

	parsed, err := c.Parse(args[0])
	if err != nil {
		return err
	}

	rendered, err := c.Render(parsed.Actions)
	if err != nil {
		return err
	}

	fmt.Printf("%sRendered:%s ", display.Cyan, display.Reset)
	display.RenderActionText(rendered.Text)

	if rendered.Text == parsed.Text {
		fmt.Printf("%sRound-trip stable%s\n", display.Green, display.Reset)
	} else {
		fmt.Printf("%sRound-trip mismatch: parse gave %s%s\n", display.Red, parsed.Text, display.Reset)
	}

	return nil
}

func batchHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: batch <text> [text...]")
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.ParseBatch(args)
	if err != nil {
		return err
	}

	valid := 0
	for i, res := range resp.Results {
		if res.Valid {
			valid++
			fmt.Printf("%s[ok]%s   %d: %s\n", display.Green, display.Reset, i+1, res.Text)
		} else {
			reason := "invalid"
			if res.Error != nil && res.Error.Details != "" {
				reason = res.Error.Details
			}
			fmt.Printf("%s[fail]%s %d: %s (%s)\n", display.Red, display.Reset, i+1, res.Text, reason)
		}
	}

	fmt.Printf("\n%d/%d valid\n", valid, len(resp.Results))
	return nil
}

func checkHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: check <text> [text...]")
	}

	bad := 0
	for _, text := range args {
		seq, err := action.ParseSequence(text)
		if err != nil {
			bad++
			fmt.Printf("%s[fail]%s %s (%v)\n", display.Red, display.Reset, text, err)
			continue
		}
		fmt.Printf("%s[ok]%s   ", display.Green, display.Reset)
		display.RenderActionText(seq.String())
	}

	if bad > 0 {
		fmt.Printf("\n%d/%d valid\n", len(args)-bad, len(args))
	}
	return nil
}

func explainHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: explain <text>")
	}

	seq, err := action.ParseSequence(args[0])
	if err != nil {
		return err
	}

	for i, a := range seq {
		fmt.Printf("  %d. %s%-14s%s %s\n", i+1, display.Magenta, a.Kind(), display.Reset, display.ExplainAction(a))
	}
	return nil
}
