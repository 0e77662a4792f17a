package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Writer serializes guard results. "jsonl" writes one result per line as
// they arrive; "summary" counts outcomes and writes an aggregate on Close.
type Writer struct {
	destination io.Writer
	format      string
	logger      *zerolog.Logger

	total   int
	blocked int
}

// Summary is the aggregate emitted by the summary format.
type Summary struct {
	Total   int `json:"total"`
	Blocked int `json:"blocked"`
	Passed  int `json:"passed"`
}

func NewWriter(destination io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &Writer{
		destination: destination,
		format:      format,
		logger:      logger,
	}, nil
}

func (w *Writer) Write(result models.GuardResult) error {
	w.total++
	if result.Blocked {
		w.blocked++
	}

	if w.format != FormatJSONL {
		return nil
	}

	line, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result %s: %w", result.ID, err)
	}
	if _, err := fmt.Fprintln(w.destination, string(line)); err != nil {
		return fmt.Errorf("failed to write result %s: %w", result.ID, err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	summary := Summary{
		Total:   w.total,
		Blocked: w.blocked,
		Passed:  w.total - w.blocked,
	}
	line, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w.destination, string(line)); err != nil {
		return err
	}

	w.logger.Info().
		Int("total", summary.Total).
		Int("blocked", summary.Blocked).
		Msg("Summary written")
	return nil
}
