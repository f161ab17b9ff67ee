package capgains

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single batch read by ProcessStream.
const maxLineSize = 16 << 20

// StreamOptions configures ProcessStream.
type StreamOptions struct {
	Rules   Rules
	Path    string // JSONPath selecting the trades in each line, empty for the whole line
	Workers int    // concurrent batches, runtime.NumCPU() when zero or less
	Logger  zerolog.Logger
}

// Result is the outcome of one batch.
type Result struct {
	ID     string
	Output []byte // encoded taxes when Err is nil
	Err    error
}

// Line returns what the command line prints for the batch.
func (r Result) Line() string {
	if r.Err != nil {
		return ErrorLine
	}
	return string(r.Output)
}

// ProcessStream reads one batch of trades per non-blank line of r and writes
// one line per batch to w, in input order: the encoded taxes, or ErrorLine if
// the batch failed.
//
// Batches are independent: each is replayed on its own Portfolio, and up to
// opts.Workers of them run at the same time. A failing batch never stops the
// others; only read, write or context errors are returned.
func ProcessStream(ctx context.Context, r io.Reader, w io.Writer, opts StreamOptions) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}

	results, err := ConvertAll(ctx, lines, opts)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, res := range results {
		if _, err := fmt.Fprintln(bw, res.Line()); err != nil {
			return fmt.Errorf("cannot write result: %w", err)
		}
	}
	return bw.Flush()
}

// ConvertAll converts every batch concurrently and returns their results in
// the same order.
func ConvertAll(ctx context.Context, batches [][]byte, opts StreamOptions) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, batch := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = convertBatch(opts, i+1, batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func convertBatch(opts StreamOptions, line int, batch []byte) Result {
	res := Result{ID: uuid.NewString()}
	log := opts.Logger.With().Str("batch", res.ID).Int("line", line).Logger()

	trades, err := DecodeTradesAt(batch, opts.Path)
	if err != nil {
		log.Info().Err(err).Msg("rejected malformed batch")
		res.Err = err
		return res
	}
	steps, err := Trace(opts.Rules, trades)
	if err != nil {
		log.Info().Err(err).Msg("rejected batch")
		res.Err = err
		return res
	}
	for i, s := range steps {
		log.Debug().
			Int("trade", i+1).
			Stringer("operation", s.Trade.Operation()).
			Stringer("quantity", s.Trade.Quantity()).
			Stringer("unit_cost", s.Trade.UnitCost()).
			Stringer("deficit", s.Position.Deficit).
			Stringer("tax", s.Tax).
			Msg("trade applied")
	}
	res.Output, res.Err = EncodeTaxes(Taxes(steps))
	return res
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([][]byte, error) {
	var lines [][]byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, bytes.Clone(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read input: %w", err)
	}
	return lines, nil
}
