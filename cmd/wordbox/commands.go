package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/export"
	"github.com/vytor/wordbox/internal/leitner"
	"github.com/vytor/wordbox/internal/models"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <word> <definition...>",
		Short: "Add a card to box 1, due tomorrow",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			word := args[0]
			definition := strings.Join(args[1:], " ")
			if err := s.sched.Add(cmd.Context(), word, definition); err != nil {
				return err
			}

			v, _ := s.sched.Card(s.sched.Len() - 1)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q at position %d, due %s\n", v.Word, v.Position, calendar.Format(v.NextReview))
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var dueOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards with their box and next review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			printCards(cmd.OutOrStdout(), s.sched, dueOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dueOnly, "due", false, "only list cards due today")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <position>",
		Short: "Show a card and its definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			return printCard(cmd.Context(), cmd.OutOrStdout(), s.sched, pos)
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection and review statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.sched.Stats(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export every card to a JSON or TSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f := export.Format(strings.ToLower(format))
			if format == "" {
				var err error
				if f, err = export.FormatFromPath(path); err != nil {
					return err
				}
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := export.Write(cmd.Context(), s.repo, path, f, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or tsv (default: from the file extension)")
	return cmd
}

// printCards writes one line per card: position, box glyph, relative date, word.
func printCards(w io.Writer, sched *leitner.Scheduler, dueOnly bool) {
	if sched.Len() == 0 {
		fmt.Fprintln(w, "No cards yet. Add one with: wordbox add <word> <definition>")
		return
	}

	today := sched.Today()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i := 0; i < sched.Len(); i++ {
		if dueOnly && !sched.IsDue(i) {
			continue
		}
		v, _ := sched.Card(i)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.Position, leitner.BoxSymbol(v.Box), leitner.RelativeDate(v.NextReview, today), v.Word)
	}
	tw.Flush()
}

func printCard(ctx context.Context, w io.Writer, sched *leitner.Scheduler, pos int) error {
	v, ok := sched.Card(pos)
	if !ok {
		return fmt.Errorf("no card at position %d (have %d)", pos, sched.Len())
	}
	def, err := sched.LookupDefinition(ctx, pos)
	if err != nil {
		return err
	}

	due := calendar.Format(v.NextReview)
	if rel := leitner.RelativeDate(v.NextReview, sched.Today()); rel != "" {
		due += " (" + rel + ")"
	}
	fmt.Fprintf(w, "%s  %s\nnext review: %s\n\n%s\n", v.Word, leitner.BoxSymbol(v.Box), due, def)
	return nil
}

func printStats(w io.Writer, stats *models.CardStats) {
	fmt.Fprintf(w, "cards:         %d\n", stats.TotalCards)
	fmt.Fprintf(w, "due today:     %d\n", stats.CardsDue)
	for box := leitner.MinBox; box <= leitner.MaxBox; box++ {
		fmt.Fprintf(w, "  %s  %d\n", leitner.BoxSymbol(box), stats.CardsByBox[box])
	}
	fmt.Fprintf(w, "reviews:       %d (%d today)\n", stats.TotalReviews, stats.ReviewsToday)
	fmt.Fprintf(w, "success rate:  %.1f%%\n", stats.SuccessRate())
	fmt.Fprintf(w, "graduated:     %d\n", stats.Graduated)
}
