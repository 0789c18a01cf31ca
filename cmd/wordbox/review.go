package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/leitner"
	"github.com/vytor/wordbox/internal/logger"
)

const reviewHelp = `Commands:
  n            jump to the next due card
  j [count]    move down (default 1)
  k [count]    move up (default 1)
  d            show the definition of the current card
  y            remembered: review the current card as a success
  f            forgot: review the current card as a failure
  a word | definition
               add a card
  l            list every card
  ?            this help
  q            quit`

var replCommands = []string{"n", "j", "k", "d", "y", "f", "a ", "l", "?", "q"}

func (a *app) reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review due cards interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			session := &reviewSession{sched: s.sched, out: cmd.OutOrStdout()}
			return session.run(cmd.Context(), a.cfg.HistoryFile)
		},
	}
}

// reviewSession drives a scheduler from line-oriented commands.
type reviewSession struct {
	sched *leitner.Scheduler
	out   io.Writer
}

// run reads commands with readline-style editing until q, Ctrl-C or EOF.
func (r *reviewSession) run(ctx context.Context, historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, c := range replCommands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	})

	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(ctx, line, historyPath)

	fmt.Fprintf(r.out, "%d cards, %d due today. Type ? for help.\n", r.sched.Len(), r.sched.DueCount())
	r.sched.AdvanceToDue()
	r.status()

	for {
		input, err := line.Prompt("wordbox> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if r.handle(ctx, input) {
			return nil
		}
	}
}

func saveHistory(ctx context.Context, line *liner.State, path string) {
	if path == "" {
		return
	}
	var buf bytes.Buffer
	if _, err := line.WriteHistory(&buf); err != nil {
		return
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		logger.FromContext(ctx).Warn("failed to save history to %s: %v", path, err)
	}
}

// handle runs one command and reports whether the session should end.
func (r *reviewSession) handle(ctx context.Context, input string) bool {
	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "q", "quit":
		return true
	case "?", "help":
		fmt.Fprintln(r.out, reviewHelp)
		return false
	case "n":
		if !r.sched.AdvanceToDue() {
			fmt.Fprintln(r.out, "Nothing left to review.")
		}
	case "j", "k":
		count := 1
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 1 {
				fmt.Fprintf(r.out, "invalid count %q\n", rest)
				return false
			}
			count = n
		}
		if cmd == "k" {
			count = -count
		}
		r.sched.MoveBy(count)
	case "d":
		fmt.Fprintln(r.out, r.sched.Definition(ctx, r.sched.Cursor()))
		return false
	case "y", "f":
		r.review(ctx, cmd == "y")
	case "a":
		r.add(ctx, rest)
	case "l":
		printCards(r.out, r.sched, false)
		return false
	default:
		fmt.Fprintf(r.out, "unknown command %q (type ? for help)\n", input)
		return false
	}

	r.status()
	return false
}

func (r *reviewSession) review(ctx context.Context, success bool) {
	out, err := r.sched.Review(ctx, success)
	if err != nil {
		fmt.Fprintf(r.out, "review failed: %v\n", err)
		return
	}

	switch out.Kind {
	case leitner.OutcomeSkipped:
		fmt.Fprintf(r.out, "%q is not due until %s.\n", out.Word, calendar.Format(out.NextReview))
	case leitner.OutcomeGraduated:
		fmt.Fprintf(r.out, "%q graduated!\n", out.Word)
	case leitner.OutcomeRetained:
		fmt.Fprintf(r.out, "%q stays in box %d, next review %s.\n", out.Word, out.Box, calendar.Format(out.NextReview))
	default:
		fmt.Fprintf(r.out, "%q %s to box %d, next review %s.\n", out.Word, out.Kind, out.Box, calendar.Format(out.NextReview))
	}
}

func (r *reviewSession) add(ctx context.Context, rest string) {
	word, definition, ok := strings.Cut(rest, "|")
	if !ok {
		fmt.Fprintln(r.out, "usage: a word | definition")
		return
	}
	word, definition = strings.TrimSpace(word), strings.TrimSpace(definition)
	if err := r.sched.Add(ctx, word, definition); err != nil {
		fmt.Fprintf(r.out, "add failed: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Added %q at position %d.\n", word, r.sched.Len()-1)
}

// status prints the card under the cursor.
func (r *reviewSession) status() {
	v, ok := r.sched.Current()
	if !ok {
		fmt.Fprintln(r.out, "(no cards)")
		return
	}

	due := "not due"
	if r.sched.IsDue(v.Position) {
		due = "due"
	}
	rel := leitner.RelativeDate(v.NextReview, r.sched.Today())
	if rel == "" {
		rel = calendar.Format(v.NextReview)
	}
	fmt.Fprintf(r.out, "[%d/%d] %s  %s  (%s, %s)\n", v.Position+1, r.sched.Len(), leitner.BoxSymbol(v.Box), v.Word, due, rel)
}
