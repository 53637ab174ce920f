// FILE: cmd/notation/main.go
// Package main implements a one-shot command line tool for working with
// action notation without a running server.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"notation/action"
	"notation/internal/client/display"
	"notation/internal/server/core"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "check":
		err = runCheck(os.Args[2:])
	case "parse":
		err = runParse(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "explain":
		err = runExplain(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: notation <command> [arguments]

Commands:
  check [-quiet] <text>...   Validate turn text, exit non-zero if any is invalid
  parse [-json] <text>...    Parse turn text and list the actions
  render                     Read an action JSON array on stdin, write canonical text
  explain <text>...          Describe each action of a turn in plain words
  help                       Show this message

check, parse, and explain read texts line by line from stdin when no
arguments are given.`)
}

// inputTexts returns the argument list, or non-empty stdin lines when no
// arguments are given.
func inputTexts(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var texts []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no input texts")
	}
	return texts, nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	quiet := fs.Bool("quiet", false, "Suppress per-input output, report via exit code only")

	if err := fs.Parse(args); err != nil {
		return err
	}

	texts, err := inputTexts(fs.Args())
	if err != nil {
		return err
	}

	bad := 0
	for _, text := range texts {
		seq, err := action.ParseSequence(text)
		if err != nil {
			if !*quiet {
				fmt.Printf("error  %s: %v\n", text, err)
			}
			bad++
			continue
		}
		if !*quiet {
			fmt.Printf("ok     %s\n", seq)
		}
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d inputs invalid", bad, len(texts))
	}
	return nil
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output parsed actions as JSON, one array per input")

	if err := fs.Parse(args); err != nil {
		return err
	}

	texts, err := inputTexts(fs.Args())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, text := range texts {
		seq, err := action.ParseSequence(text)
		if err != nil {
			return fmt.Errorf("%s: %w", text, err)
		}

		if *jsonOut {
			if err := enc.Encode(core.PayloadsFromSequence(seq)); err != nil {
				return err
			}
			continue
		}

		fmt.Println(seq)
		for i, a := range seq {
			fmt.Printf("  %d. %-14s %s\n", i+1, a.Kind(), describe(a))
		}
	}
	return nil
}

func runRender(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("usage: notation render < actions.json")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	var payloads []core.ActionPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return fmt.Errorf("failed to decode actions: %w", err)
	}

	seq, err := core.SequenceFromPayloads(payloads)
	if err != nil {
		return err
	}

	fmt.Println(seq)
	return nil
}

func runExplain(args []string) error {
	texts, err := inputTexts(args)
	if err != nil {
		return err
	}

	for _, text := range texts {
		seq, err := action.ParseSequence(text)
		if err != nil {
			return fmt.Errorf("%s: %w", text, err)
		}

		fmt.Println(seq)
		for i, a := range seq {
			fmt.Printf("  %d. %s\n", i+1, display.ExplainAction(a))
		}
	}
	return nil
}

// describe gives the short operand summary used in parse listings.
func describe(a action.Action) string {
	switch v := a.(type) {
	case action.Move:
		return withTransform(v.Source+" -> "+v.Destination, v.Transformation)
	case action.Capture:
		return withTransform(v.Source+" -> "+v.Destination, v.Transformation)
	case action.Special:
		return withTransform(v.Source+" -> "+v.Destination, v.Transformation)
	case action.StaticCapture:
		return "at " + v.Destination
	case action.Drop:
		return withTransform(pieceOrAny(v.Piece)+" at "+v.Destination, v.Transformation)
	case action.DropCapture:
		return withTransform(pieceOrAny(v.Piece)+" at "+v.Destination, v.Transformation)
	case action.Modify:
		return v.Destination + " becomes " + v.Piece
	}
	return ""
}

func withTransform(s, transform string) string {
	if transform == "" {
		return s
	}
	return s + " = " + transform
}

func pieceOrAny(piece string) string {
	if piece == "" {
		return "piece"
	}
	return piece
}
