// Package pipeline orchestrates one queued effect job: fetch and decode the
// source raster, dispatch it through the effect bridge, then encode and emit
// the outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmaxwell/rasterfx/internal/domain"
	"github.com/dmaxwell/rasterfx/internal/raster"
)

var ErrUnsupportedSourceType = errors.New("unsupported source_type")

type Request struct {
	JobID      string
	SourceType string
	ObjectKey  string
	Effect     string
	Params     map[string]any
	Inline     *raster.Buffer
}

type Output struct {
	JobID   string
	Effect  string
	Format  string
	Path    string
	Bytes   int
	Width   int
	Height  int
	Success bool
}

// Result carries the emitted output plus the effect-level error, if any.
// An effect failure is data, not a fault: the pass-through image is still
// emitted so consumers composite the unmodified source back.
type Result struct {
	Output      Output
	SourceBytes int
	EffectError string
}

type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*raster.Buffer, int, error)
}

type Emitter interface {
	Emit(ctx context.Context, req Request, buf *raster.Buffer) (Output, error)
}

// Submitter is the dispatch bridge seam; satisfied by *bridge.Bridge.
type Submitter interface {
	Submit(job domain.EffectJob) (<-chan domain.EffectOutcome, error)
}

type Processor struct {
	fetcher   Fetcher
	submitter Submitter
	emitter   Emitter
}

func NewLocalProcessor(outputDir string, submitter Submitter) (*Processor, error) {
	if submitter == nil {
		return nil, errors.New("effect submitter is required")
	}
	return &Processor{
		fetcher:   LocalFileFetcher{},
		submitter: submitter,
		emitter:   LocalFileEmitter{OutputDir: outputDir},
	}, nil
}

func NewObjectStoreProcessor(fetcher Fetcher, emitter Emitter, submitter Submitter) (*Processor, error) {
	if submitter == nil {
		return nil, errors.New("effect submitter is required")
	}
	return &Processor{
		fetcher:   fetcher,
		submitter: submitter,
		emitter:   emitter,
	}, nil
}

func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.JobID) == "" {
		return Result{}, errors.New("job_id is required")
	}
	if strings.TrimSpace(req.Effect) == "" {
		return Result{}, errors.New("effect is required")
	}

	input, sourceBytes, err := p.fetchInput(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch stage: %w", err)
	}

	future, err := p.submitter.Submit(domain.EffectJob{
		ID:     req.JobID,
		Effect: req.Effect,
		Params: req.Params,
		Input:  input,
	})
	if err != nil {
		return Result{}, fmt.Errorf("dispatch stage: %w", err)
	}

	var outcome domain.EffectOutcome
	select {
	case outcome = <-future:
	case <-ctx.Done():
		// The computation runs to completion regardless; only the wait is
		// abandoned here.
		return Result{}, ctx.Err()
	}

	written, err := p.emitter.Emit(ctx, req, outcome.Output)
	if err != nil {
		return Result{}, fmt.Errorf("emit stage effect=%s: %w", req.Effect, err)
	}

	return Result{
		Output:      written,
		SourceBytes: sourceBytes,
		EffectError: outcome.Err,
	}, nil
}

func (p *Processor) fetchInput(ctx context.Context, req Request) (*raster.Buffer, int, error) {
	if req.Inline != nil && strings.EqualFold(req.SourceType, domain.SourceTypeInline) {
		if err := req.Inline.Validate(); err != nil {
			return nil, 0, fmt.Errorf("inline image: %w", err)
		}
		return req.Inline, len(req.Inline.Pix), nil
	}
	return p.fetcher.Fetch(ctx, req)
}

type LocalFileFetcher struct{}

func (LocalFileFetcher) Fetch(ctx context.Context, req Request) (*raster.Buffer, int, error) {
	if !strings.EqualFold(req.SourceType, domain.SourceTypeLocalFile) {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}

	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	data, err := os.ReadFile(req.ObjectKey)
	if err != nil {
		return nil, 0, fmt.Errorf("read input file %s: %w", req.ObjectKey, err)
	}

	buf, err := raster.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return buf, len(data), nil
}

type LocalFileEmitter struct {
	OutputDir string
}

func (e LocalFileEmitter) Emit(_ context.Context, req Request, buf *raster.Buffer) (Output, error) {
	if strings.TrimSpace(e.OutputDir) == "" {
		return Output{}, errors.New("output directory is required")
	}

	data, err := raster.EncodePNG(buf)
	if err != nil {
		return Output{}, err
	}

	jobDir := filepath.Join(e.OutputDir, sanitizePathToken(req.JobID))
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create output dir: %w", err)
	}

	fullPath := filepath.Join(jobDir, "result.png")
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return Output{}, fmt.Errorf("write output file: %w", err)
	}

	return Output{
		JobID:   req.JobID,
		Effect:  req.Effect,
		Format:  "png",
		Path:    fullPath,
		Bytes:   len(data),
		Width:   buf.Width,
		Height:  buf.Height,
		Success: true,
	}, nil
}

func sanitizePathToken(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return "unknown"
	}

	var b strings.Builder
	b.Grow(len(in))
	for _, r := range in {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
