package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"

	"github.com/yurifrl/finscan/pkg/csv"
	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/parser"
)

type filters struct {
	startDate   string
	endDate     string
	minAmount   float64
	maxAmount   float64
	category    string
	txType      string
	description string
}

// toFilterFunc validates the flags and returns the matching predicate. Date
// bounds are inclusive.
func (f *filters) toFilterFunc() (csv.FilterFunc[models.TransactionDraft], error) {
	var start, end time.Time
	var err error
	if f.startDate != "" {
		if start, err = time.Parse(models.DateLayout, f.startDate); err != nil {
			return nil, fmt.Errorf("invalid --start %q, want YYYY-MM-DD", f.startDate)
		}
	}
	if f.endDate != "" {
		if end, err = time.Parse(models.DateLayout, f.endDate); err != nil {
			return nil, fmt.Errorf("invalid --end %q, want YYYY-MM-DD", f.endDate)
		}
	}
	var typ models.Type
	if f.txType != "" {
		if typ, err = models.ParseType(f.txType); err != nil {
			return nil, err
		}
	}

	return func(t models.TransactionDraft) bool {
		if !start.IsZero() || !end.IsZero() {
			date, err := t.Time()
			if err != nil {
				return false
			}
			if !start.IsZero() && date.Before(start) {
				return false
			}
			if !end.IsZero() && date.After(end) {
				return false
			}
		}
		if f.minAmount != 0 && t.Amount < f.minAmount {
			return false
		}
		if f.maxAmount != 0 && t.Amount > f.maxAmount {
			return false
		}
		if f.category != "" && !strings.EqualFold(t.Category, f.category) {
			return false
		}
		if typ != "" && t.Type != typ {
			return false
		}
		if f.description != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.description)) {
			return false
		}
		return true
	}, nil
}

type FileProcessor struct {
	logger     *log.Logger
	parser     *parser.Parser
	categories []models.Category
	filter     csv.FilterFunc[models.TransactionDraft]
	dump       bool
}

func NewFileProcessor(logger *log.Logger, p *parser.Parser, categories []models.Category, f *filters, dump bool) (*FileProcessor, error) {
	fn, err := f.toFilterFunc()
	if err != nil {
		return nil, err
	}
	return &FileProcessor{
		logger:     logger,
		parser:     p,
		categories: categories,
		filter:     fn,
		dump:       dump,
	}, nil
}

func (p *FileProcessor) ProcessDirectory(inputDir string) error {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := p.ProcessFile(filepath.Join(inputDir, entry.Name())); err != nil {
			p.logger.Warn("error processing file", "error", err)
		}
	}
	return nil
}

func (p *FileProcessor) ProcessFile(inputPath string) error {
	fileBytes, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	drafts, err := p.parser.ProcessBytes(fileBytes, filepath.Base(inputPath), p.categories)
	if err != nil {
		return fmt.Errorf("failed to process file: %w", err)
	}

	if p.dump {
		kept := slices.DeleteFunc(drafts, func(d models.TransactionDraft) bool { return !p.filter(d) })
		pp.Println(kept)
		return nil
	}
	fmt.Print(string(csv.Create(drafts, p.filter)))
	return nil
}
