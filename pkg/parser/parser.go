package parser

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/finscan/pkg/decode"
	"github.com/yurifrl/finscan/pkg/extract"
	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/segment"
)

type Parser struct {
	logger    *log.Logger
	decoders  *decode.Registry
	segmenter *segment.Segmenter
	extractor *extract.Extractor
}

type Option func(*Parser)

// WithDecoders replaces the process-wide decoder registry.
func WithDecoders(r *decode.Registry) Option {
	return func(p *Parser) { p.decoders = r }
}

func WithSegmenter(s *segment.Segmenter) Option {
	return func(p *Parser) { p.segmenter = s }
}

func New(logger *log.Logger, extractor *extract.Extractor, opts ...Option) *Parser {
	p := &Parser{
		logger:    logger,
		decoders:  decode.Default(),
		segmenter: segment.New(segment.DefaultMinLength),
		extractor: extractor,
	}
	if p.extractor == nil {
		p.extractor = extract.New(extract.Options{})
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessBytes turns an uploaded statement into drafts. A document that
// cannot be decoded fails the whole call; segments without a transaction are
// skipped and logged.
func (p *Parser) ProcessBytes(data []byte, filename string, categories []models.Category) ([]models.TransactionDraft, error) {
	format, err := decode.Detect(filename)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("detected file type", "type", format, "filename", filename)

	if format == decode.CSV {
		return p.ParseDraftCSV(data)
	}

	d, err := p.decoders.Get(format)
	if err != nil {
		return nil, err
	}
	text, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	drafts := p.ProcessText(text, categories)
	p.logger.Info("extracted transactions", "filename", filename, "count", len(drafts))
	return drafts, nil
}

// ProcessText segments already decoded text and extracts drafts from it.
func (p *Parser) ProcessText(text string, categories []models.Category) []models.TransactionDraft {
	res := p.extractor.ExtractText(text, p.segmenter, categories)
	for _, s := range res.Skipped {
		p.logger.Debug("skipping segment", "index", s.Index, "segment", s.Segment, "reason", s.Reason)
	}
	return res.Drafts
}
