package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/session"
)

// bannerWidth is the separator width used across terminal output.
const bannerWidth = 50

// loopOptions configures the interactive question/answer loop.
type loopOptions struct {
	verbose bool
	// checkpoint runs after every recorded answer with the updated state.
	// Used for best-effort persistence; may be nil.
	checkpoint func(state *session.State)
}

func banner(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", bannerWidth))
	fmt.Fprintln(out, title)
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", bannerWidth))
}

// interactiveLoop drives the terminal interview over a planned session: one
// question at a time, answers read line by line from in. Typing quit, exit,
// or stop (or closing stdin) ends the interview early. The final report
// prints regardless of how many questions were answered.
func interactiveLoop(ctx context.Context, wf *session.Workflow, state *session.State, in io.Reader, out io.Writer, opts loopOptions) error {
	banner(out, "INTERACTIVE INTERVIEW MODE")

	printer := observability.NewPrinter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

loop:
	for {
		question, ok := wf.CurrentQuestion(state)
		if !ok {
			break
		}

		if opts.verbose {
			answered, total := state.Progress()
			fmt.Fprintf(out, "\n[Question %d of %d]\n", answered+1, total)
		}
		fmt.Fprintf(out, "\nInterviewer: %s\n", question.Question)
		fmt.Fprint(out, "Candidate: ")

		if !scanner.Scan() {
			// Closed stdin ends the interview like an explicit quit
			fmt.Fprintln(out)
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(answer) {
		case "quit", "exit", "stop":
			fmt.Fprintln(out, "Interview terminated by user.")
			break loop
		}

		note, err := wf.SubmitAnswer(ctx, state, answer)
		if err != nil {
			return fmt.Errorf("failed to process answer: %w", err)
		}

		fmt.Fprintf(out, "[Note taken - Score: %d/10]\n", note.Score)
		if opts.verbose {
			printer.PrintNote(note)
		}
		if opts.checkpoint != nil {
			opts.checkpoint(state)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}

	reportText := wf.Finish(ctx, state)
	banner(out, "FINAL INTERVIEW REPORT")
	fmt.Fprintln(out, reportText)

	printer.PrintSummary(state.Notes)

	return nil
}
