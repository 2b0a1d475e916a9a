package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/finscan/pkg/models"
)

type YNABConfig struct {
	BudgetID string            `yaml:"budget_id"`
	TokenEnv string            `yaml:"token_env"`
	Accounts map[string]string `yaml:"accounts"`
}

// Plan lists statements to scan and where their transactions go.
type Plan struct {
	YNAB       YNABConfig  `yaml:"ynab"`
	Statements []Statement `yaml:"statements"`
}

// Statement is one file of the plan. Account names a key of YNAB.Accounts,
// or is an account id itself; empty means ledger only.
type Statement struct {
	FilePath string `yaml:"file"`
	Account  string `yaml:"account"`
}

// Parser is the contract statement files are scanned with.
type Parser interface {
	ProcessBytes(data []byte, filename string, categories []models.Category) ([]models.TransactionDraft, error)
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Statements) == 0 {
		return nil, fmt.Errorf("plan has no statements")
	}
	for i, st := range p.Statements {
		if strings.TrimSpace(st.FilePath) == "" {
			return nil, fmt.Errorf("statement %d has no file", i+1)
		}
	}
	return &p, nil
}

// AccountID resolves the statement account through the plan's account map.
func (p *Plan) AccountID(st Statement) string {
	if id, ok := p.YNAB.Accounts[st.Account]; ok {
		return id
	}
	return st.Account
}

func (p *Plan) Print(w io.Writer) {
	budget := p.YNAB.BudgetID
	if budget == "" {
		budget = "(none)"
	}
	fmt.Fprintf(w, "YNAB budget: %s\n", budget)
	for i, st := range p.Statements {
		account := st.Account
		if account == "" {
			account = "(ledger only)"
		}
		fmt.Fprintf(w, "[%d] file=%s account=%s\n", i+1, st.FilePath, account)
	}
}

// File returns the statement path with a leading ~ expanded.
func (s Statement) File() (string, error) {
	if s.FilePath == "~" || strings.HasPrefix(s.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(s.FilePath[1:], "/")), nil
	}
	return s.FilePath, nil
}

// Drafts reads the statement file and scans it with p.
func (s Statement) Drafts(p Parser, categories []models.Category) ([]models.TransactionDraft, error) {
	path, err := s.File()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file %s: %w", path, err)
	}

	drafts, err := p.ProcessBytes(data, filepath.Base(path), categories)
	if err != nil {
		return nil, fmt.Errorf("failed to process statement file %s: %w", path, err)
	}
	return drafts, nil
}
