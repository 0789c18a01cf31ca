// Package export writes the card collection to a JSON or TSV file.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/errors"
	"github.com/vytor/wordbox/internal/logger"
	"github.com/vytor/wordbox/internal/models"
	"github.com/vytor/wordbox/internal/repository"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatTSV  Format = "tsv"
)

const filePerms = 0o644

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".tsv", ".txt":
		return FormatTSV, nil
	default:
		return "", errors.NewValidationError("path", fmt.Sprintf("unsupported export extension %q (want .json or .tsv)", filepath.Ext(path)))
	}
}

type card struct {
	Position   int    `json:"position"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Box        int    `json:"box"`
	NextReview string `json:"next_review"`
	Attempts   int    `json:"attempts"`
}

type document struct {
	ExportedAt time.Time `json:"exported_at"`
	Cards      []card    `json:"cards"`
}

// Write exports every stored card to path, replacing any existing file
// atomically. It returns the number of cards written.
func Write(ctx context.Context, repo repository.CardRepository, path string, format Format, now time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("export")

	cards, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = encodeJSON(cards, now)
	case FormatTSV:
		data, err = encodeTSV(cards)
	default:
		return 0, errors.NewValidationError("format", fmt.Sprintf("unknown format %q", format))
	}
	if err != nil {
		return 0, errors.NewInternalError(err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return 0, errors.NewWriteFailedError("export", err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, filePerms); err != nil {
		return 0, errors.NewWriteFailedError("export", err)
	}

	log.Debug("exported %d cards to %s as %s", len(cards), path, format)
	return len(cards), nil
}

func toExport(cards []models.Card) []card {
	out := make([]card, 0, len(cards))
	for i, c := range cards {
		out = append(out, card{
			Position:   i,
			Word:       c.Word,
			Definition: c.Definition,
			Box:        c.Box,
			NextReview: calendar.Format(c.NextReview),
			Attempts:   c.Attempts,
		})
	}
	return out
}

func encodeJSON(cards []models.Card, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(document{ExportedAt: now, Cards: toExport(cards)}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeTSV(cards []models.Card) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	if err := w.Write([]string{"word", "definition", "box", "next_review", "attempts"}); err != nil {
		return nil, err
	}
	for _, c := range toExport(cards) {
		row := []string{c.Word, c.Definition, strconv.Itoa(c.Box), c.NextReview, strconv.Itoa(c.Attempts)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
