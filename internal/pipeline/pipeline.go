// =============================================================================
// SuperSlice ETL - Pipeline
// =============================================================================
//
// This module runs discovered export files through the ETL stages and
// aggregates one Outcome per file.
//
// PER FILE:
//   1. Classify the file (platform from its directory, kind from its name)
//   2. Pick the platform parser
//   3. Open the row stream and check the header contract
//   4. For every row:
//        a. Skip repeated header rows
//        b. Decode into a typed record (row errors are recorded, not fatal)
//        c. Map onto the unified schema
//        d. Write the isolated and unified rows concurrently
//   5. Wait for all writes, then move the file to the archive or failed
//      directory (unless dry-run)
//
// CONCURRENCY:
//   Files run on a bounded worker group. Inside a file, rows are read
//   sequentially and persisted on a second bounded group. Duplicate keys
//   are resolved by the database's unique indexes only.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwilly/SuperSliceETL/internal/parsers"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// ParserFactory returns the parser for a classified file.
type ParserFactory interface {
	For(p platform.Platform, k platform.Kind) (parsers.Parser, error)
}

// Writer persists isolated and unified records. Both calls are
// insert-or-ignore and report whether a row was inserted.
type Writer interface {
	WriteIsolated(ctx context.Context, rec types.PlatformRecord) (bool, error)
	WriteUnified(ctx context.Context, u types.UnifiedRecord) (bool, error)
}

// Deprovisioner moves finished files out of the raw directory.
type Deprovisioner interface {
	Archive(path string) (string, error)
	Fail(path string) (string, error)
}

// Recorder receives per-file and per-row counts.
type Recorder interface {
	FileProcessed(platform, status string, d time.Duration)
	RowOutcome(platform, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) FileProcessed(string, string, time.Duration) {}
func (nopRecorder) RowOutcome(string, string)                   {}

// =============================================================================
// PIPELINE
// =============================================================================

// Options control a run.
type Options struct {
	// DryRun leaves files where they are. Records are still written.
	DryRun bool

	// MaxConcurrency bounds the files processed at once.
	MaxConcurrency int

	// RowConcurrency bounds the rows persisted at once per file.
	RowConcurrency int

	// Patterns classify files as trax or itemz.
	Patterns platform.Patterns
}

// Deps are the pipeline's collaborators. Mover and Metrics are optional.
type Deps struct {
	Factory ParserFactory
	Writer  Writer
	Mover   Deprovisioner
	Metrics Recorder
	Log     *zap.Logger
}

// Pipeline processes export files.
type Pipeline struct {
	opts    Options
	factory ParserFactory
	writer  Writer
	mover   Deprovisioner
	metrics Recorder
	log     *zap.Logger
}

// New creates a pipeline.
func New(opts Options, deps Deps) *Pipeline {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.RowConcurrency < 1 {
		opts.RowConcurrency = 1
	}

	p := &Pipeline{
		opts:    opts,
		factory: deps.Factory,
		writer:  deps.Writer,
		mover:   deps.Mover,
		metrics: deps.Metrics,
		log:     deps.Log,
	}
	if p.metrics == nil {
		p.metrics = nopRecorder{}
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// ProcessFiles processes every file and returns their outcomes in input
// order. A failing file never stops the others.
func (p *Pipeline) ProcessFiles(ctx context.Context, files []string) []Outcome {
	outcomes := make([]Outcome, len(files))

	var g errgroup.Group
	g.SetLimit(p.opts.MaxConcurrency)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = p.ProcessFile(ctx, path)
			return nil
		})
	}
	g.Wait()

	return outcomes
}

// ProcessFile runs a single file through every stage.
//
// PARAMETERS:
//   - ctx: Passed to the storage calls.
//   - path: The export file. Its parent directory names the platform.
//
// RETURNS:
//   - The file's Outcome. File-level failures are in Outcome.Err and row
//     failures in Outcome.RowErrors.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (out Outcome) {
	start := time.Now()
	out = Outcome{FilePath: path, State: Discovered}
	log := p.log.With(zap.String("file", path))

	defer func() {
		out.Duration = time.Since(start)
		p.finish(&out, log)
	}()

	// =========================================================================
	// CLASSIFY
	// =========================================================================

	plat, kind, err := platform.Classify(path, p.opts.Patterns)
	out.Platform = plat
	out.Kind = kind
	if err != nil {
		out.abort(err)
		return out
	}
	out.State = Classified
	log = log.With(zap.String("platform", plat.String()), zap.String("kind", kind.String()))

	parser, err := p.factory.For(plat, kind)
	if err != nil {
		out.abort(err)
		return out
	}

	// =========================================================================
	// HEADERS
	// =========================================================================

	src, err := openSource(path, parser.Stream())
	if err != nil {
		out.abort(fmt.Errorf("failed to open %s: %w", path, err))
		return out
	}
	defer src.Close()

	contract := parser.Contract()
	if err := contract.Check(src.Headers()); err != nil {
		out.abort(err)
		return out
	}

	// =========================================================================
	// ROWS
	// =========================================================================

	out.State = Decoding
	label := plat.String()

	var mu sync.Mutex
	fail := func(row int, key string, err error) {
		mu.Lock()
		out.RowErrors = append(out.RowErrors, RowFailure{Row: row, Key: key, Err: err})
		mu.Unlock()
		p.metrics.RowOutcome(label, RowError)
		log.Warn("row failed", zap.Int("row", row), zap.String("key", key), zap.Error(err))
	}

	var g errgroup.Group
	g.SetLimit(p.opts.RowConcurrency)

	for src.Next() {
		row := src.Row()
		rowNumber := src.RowNumber()
		key, _ := row.Get(contract.KeyColumn)

		if contract.IsRepeatedHeader(row) {
			mu.Lock()
			out.Skipped++
			mu.Unlock()
			p.metrics.RowOutcome(label, RowSkipped)
			log.Debug("skipping repeated header row", zap.Int("row", rowNumber))
			continue
		}

		rec, err := parser.Decode(row, rowNumber, path)
		if err != nil {
			fail(rowNumber, key, err)
			continue
		}

		unified, err := parser.Unify(rec)
		if err != nil {
			fail(rowNumber, key, err)
			continue
		}

		isolated := parser.WriteIsolated()
		g.Go(func() error {
			isoInserted, uniInserted, err := p.persist(ctx, isolated, rec, unified)
			if err != nil {
				fail(rowNumber, rec.NaturalKey(), err)
				return nil
			}

			mu.Lock()
			out.RowCount++
			if isoInserted {
				out.IsolatedInserted++
			}
			if uniInserted {
				out.UnifiedInserted++
			}
			mu.Unlock()

			if uniInserted {
				p.metrics.RowOutcome(label, RowInserted)
			} else {
				p.metrics.RowOutcome(label, RowDuplicate)
			}
			return nil
		})
	}
	g.Wait()

	if err := src.Err(); err != nil {
		out.abort(fmt.Errorf("failed to read %s after row %d: %w", path, src.RowNumber(), err))
		return out
	}

	out.State = Completed
	return out
}

// persist writes the isolated and unified rows of one record concurrently.
// When both writes fail the returned error carries both.
func (p *Pipeline) persist(ctx context.Context, isolated bool, rec types.PlatformRecord, unified types.UnifiedRecord) (bool, bool, error) {
	var (
		isoInserted, uniInserted bool
		isoErr, uniErr           error
		wg                       sync.WaitGroup
	)

	if isolated {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isoInserted, isoErr = p.writer.WriteIsolated(ctx, rec)
		}()
	}

	uniInserted, uniErr = p.writer.WriteUnified(ctx, unified)
	wg.Wait()

	return isoInserted, uniInserted, multierr.Combine(isoErr, uniErr)
}

// finish sets the final status, moves the file and reports it.
func (p *Pipeline) finish(out *Outcome, log *zap.Logger) {
	if out.State == Completed {
		out.Status = StatusSuccess
	} else {
		out.State = Aborted
		out.Status = StatusFailed
	}

	if !p.opts.DryRun && p.mover != nil {
		var dest string
		var err error
		if out.Succeeded() {
			dest, err = p.mover.Archive(out.FilePath)
		} else {
			dest, err = p.mover.Fail(out.FilePath)
		}
		if err != nil {
			out.MoveErr = err
			log.Error("failed to move file", zap.Error(err))
		} else {
			out.MovedTo = dest
		}
	}

	p.metrics.FileProcessed(out.Platform.String(), out.Status, out.Duration)

	fields := []zap.Field{
		zap.String("status", out.Status),
		zap.Int("rows", out.RowCount),
		zap.Int("skipped", out.Skipped),
		zap.Int("row_errors", len(out.RowErrors)),
		zap.Int("isolated_inserted", out.IsolatedInserted),
		zap.Int("unified_inserted", out.UnifiedInserted),
		zap.Duration("duration", out.Duration),
	}
	if out.MovedTo != "" {
		fields = append(fields, zap.String("moved_to", out.MovedTo))
	}

	if out.Err != nil {
		log.Error("file aborted", append(fields, zap.Error(out.Err))...)
		return
	}
	log.Info("file completed", fields...)
}

func (o *Outcome) abort(err error) {
	o.State = Aborted
	o.Err = err
}
