// Package converter is the batch coordinator: it runs each named buffer
// through frame → decode → normalize → encode and produces exactly one
// Result per Input, in input order. A failure is confined to its own
// buffer; sibling buffers are never delayed, altered, or dropped by it.
package converter

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mcncl/debson/internal/config"
	"github.com/mcncl/debson/internal/decoder"
	"github.com/mcncl/debson/internal/encoder"
	"github.com/mcncl/debson/internal/errors"
	"github.com/mcncl/debson/internal/framer"
	"github.com/mcncl/debson/internal/models"
	"github.com/mcncl/debson/internal/normalizer"
)

// Converter converts batches of BSON dump buffers to JSON text.
type Converter struct {
	cfg *config.Config
	enc *encoder.Encoder
	log *zap.Logger
}

// New creates a Converter with the given configuration and no logging.
func New(cfg *config.Config) *Converter {
	return NewWithLogger(cfg, zap.NewNop())
}

// NewWithLogger creates a Converter that logs per-buffer outcomes.
func NewWithLogger(cfg *config.Config, logger *zap.Logger) *Converter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		cfg: cfg,
		enc: encoder.New(cfg.Indent),
		log: logger,
	}
}

// ConvertAll converts every input and returns one Result per Input, same
// length and order. Buffers share no state, so with workers > 1 they are
// converted concurrently; results are written by input index, so output
// order matches input order regardless of completion order. Cancellation
// is checked at buffer granularity only: a cancelled context fails the
// buffers not yet started, it never leaves a half-converted buffer
// observable.
func (c *Converter) ConvertAll(ctx context.Context, inputs []models.Input) []models.Result {
	results := make([]models.Result, len(inputs))

	if c.cfg.Workers <= 1 || len(inputs) < 2 {
		for i, in := range inputs {
			results[i] = c.convertOrCancel(ctx, in)
		}
		return results
	}

	workers := c.cfg.Workers
	if workers > len(inputs) {
		workers = len(inputs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.convertOrCancel(ctx, inputs[i])
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (c *Converter) convertOrCancel(ctx context.Context, in models.Input) models.Result {
	if err := ctx.Err(); err != nil {
		return models.Result{
			Name: in.Name,
			Err:  errors.ForBuffer(in.Name, errors.NewInputError("conversion cancelled", err)),
		}
	}
	return c.convertOne(in)
}

func (c *Converter) convertOne(in models.Input) models.Result {
	res := models.Result{Name: in.Name}

	docs, err := c.decodeBuffer(in.Data)
	if err != nil {
		res.Err = errors.ForBuffer(in.Name, err)
		c.log.Warn("conversion failed",
			zap.String("buffer", in.Name),
			zap.Error(res.Err),
		)
		return res
	}

	res.Output = c.enc.Encode(docs)
	res.OutputName = c.OutputName(in.Name)
	res.Documents = len(docs)
	c.log.Debug("buffer converted",
		zap.String("buffer", in.Name),
		zap.Int("documents", res.Documents),
		zap.String("output", res.OutputName),
	)
	return res
}

// decodeBuffer is the per-buffer state machine: empty → EmptyInputError;
// corrupt prefix → FramingError for the whole buffer; zero documents from
// a non-empty buffer → EmptyResultError; any document the codec rejects →
// DecodeError. Only when every document decodes does normalization and
// encoding happen.
func (c *Converter) decodeBuffer(data []byte) ([]models.Value, error) {
	if len(data) == 0 {
		return nil, errors.NewEmptyInputError()
	}
	ranges, err := framer.Frame(data)
	if err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		return nil, errors.NewEmptyResultError()
	}

	docs := make([]models.Value, 0, len(ranges))
	for _, r := range ranges {
		doc, err := decoder.Decode(r)
		if err != nil {
			return nil, err
		}
		if c.cfg.NormalizeKeys {
			doc = normalizer.Normalize(doc)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// OutputName derives the output file name: a trailing .bson or .db
// (case-insensitive) becomes .json; any other name falls back to the
// configured naming policy.
func (c *Converter) OutputName(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".bson", ".db"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)] + ".json"
		}
	}
	return c.cfg.FallbackName(name)
}
