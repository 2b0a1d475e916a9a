package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/finscan/pkg/csv"
	"github.com/yurifrl/finscan/pkg/decode"
	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/parser"
)

// OutputSuffix is appended to the base name of every processed statement.
const OutputSuffix = "-finscan.csv"

// Processor converts every statement of a directory into a draft CSV.
type Processor struct {
	outputDir  string
	logger     *log.Logger
	parser     *parser.Parser
	categories []models.Category
}

// NewProcessor writes next to each input when outputDir is empty.
func NewProcessor(outputDir string, logger *log.Logger, p *parser.Parser, categories []models.Category) *Processor {
	return &Processor{
		outputDir:  outputDir,
		logger:     logger,
		parser:     p,
		categories: categories,
	}
}

// ProcessDirectory handles each supported file of dir. A file that fails is
// logged and the rest still run; the paths written are returned.
func (p *Processor) ProcessDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var written []string
	for _, entry := range entries {
		out, err := p.processEntry(dir, entry)
		if err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
			continue
		}
		if out != "" {
			written = append(written, out)
		}
	}
	return written, nil
}

func (p *Processor) processEntry(dir string, entry os.DirEntry) (string, error) {
	if entry.IsDir() || strings.HasSuffix(strings.ToLower(entry.Name()), OutputSuffix) {
		return "", nil
	}
	if _, err := decode.Detect(entry.Name()); errors.Is(err, decode.ErrUnsupported) {
		p.logger.Debug("skipping unsupported file", "file", entry.Name())
		return "", nil
	}

	inputPath := filepath.Join(dir, entry.Name())
	outFile := p.OutputPath(inputPath)
	p.logger.Info("processing file", "path", inputPath)

	if err := p.ProcessFile(inputPath, outFile); err != nil {
		return "", err
	}
	p.logger.Info("processed file successfully", "input", inputPath, "output", outFile)
	return outFile, nil
}

// OutputPath is where the CSV for inputPath goes.
func (p *Processor) OutputPath(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if p.outputDir != "" {
		return filepath.Join(p.outputDir, base+OutputSuffix)
	}
	return filepath.Join(filepath.Dir(inputPath), base+OutputSuffix)
}

// ProcessFile scans one statement and writes its drafts in document order.
func (p *Processor) ProcessFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	drafts, err := p.parser.ProcessBytes(data, filepath.Base(inputPath), p.categories)
	if err != nil {
		return fmt.Errorf("error parsing file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("error creating output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, csv.Create(drafts, nil), 0o644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}
