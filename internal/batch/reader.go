package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

// InputRecord is one parsed line of a JSONL input. Lines that fail to parse
// carry the error instead of a request; the line number is 1-based either
// way.
type InputRecord struct {
	Request    models.GuardRequest
	LineNumber int
	Error      error
}

// Reader streams guard requests out of a JSONL source.
type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// ReadAll parses the source line by line on a goroutine. Blank lines are
// skipped; parse failures are emitted as error records so callers decide
// whether to stop. The channel closes at EOF or when ctx is cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
				r.logger.Warn().Err(err).Int("line", lineNumber).Msg("Skipping malformed record")
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("Failed to read input")
		}
	}()

	return out
}
