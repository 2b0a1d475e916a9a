// Package store keeps categories and imported transactions in a YAML ledger
// file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/finscan/pkg/models"
)

var (
	ErrDuplicate = errors.New("category already exists")
	ErrInUse     = errors.New("category is used by transactions")
	ErrNotFound  = errors.New("category not found")

	ErrTransactionNotFound = errors.New("transaction not found")
)

type ledger struct {
	Categories   []models.Category    `yaml:"categories"`
	Transactions []models.Transaction `yaml:"transactions"`
}

// Store is a ledger loaded in memory. Mutations stay in memory until Save.
// It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	data ledger
}

// Open loads the ledger at path. A missing file yields a ledger seeded with
// the default categories; it is written on the first Save.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.data.Categories = models.DefaultCategories()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

// Save writes the ledger atomically next to its final path.
func (s *Store) Save() error {
	s.mu.RLock()
	out, err := yaml.Marshal(&s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ledger dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

// Categories returns a copy of the categories in ledger order.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Categories)
}

// Transactions returns a copy of the stored transactions in import order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Transactions)
}

// AddCategory creates a category. Names are unique per type, ignoring case.
func (s *Store) AddCategory(name string, t models.Type) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, errors.New("category name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.Categories {
		if c.Type == t && strings.EqualFold(c.Name, name) {
			return models.Category{}, fmt.Errorf("%w: %s (%s)", ErrDuplicate, name, t)
		}
	}
	c := models.Category{ID: uuid.NewString(), Name: name, Type: t}
	s.data.Categories = append(s.data.Categories, c)
	return c, nil
}

// DeleteCategory removes the category with the given id, unless a stored
// transaction still points at it by name.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.data.Categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := s.data.Categories[i]
	for _, tx := range s.data.Transactions {
		if tx.Category == c.Name {
			return fmt.Errorf("%w: %s", ErrInUse, c.Name)
		}
	}
	s.data.Categories = slices.Delete(s.data.Categories, i, i+1)
	return nil
}

// Append adds transactions to the ledger. Each one needs an ID.
func (s *Store) Append(txs ...models.Transaction) error {
	for _, tx := range txs {
		if tx.ID == "" {
			return fmt.Errorf("transaction %q has no id", tx.Description)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Transactions = append(s.data.Transactions, txs...)
	return nil
}

// UpdateTransaction replaces the fields of the transaction with the given id.
func (s *Store) UpdateTransaction(id string, d models.TransactionDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Transactions, func(tx models.Transaction) bool { return tx.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	s.data.Transactions[i].TransactionDraft = d
	return nil
}

func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.data.Transactions, func(tx models.Transaction) bool { return tx.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	s.data.Transactions = slices.Delete(s.data.Transactions, i, i+1)
	return nil
}

// Summary totals the ledger. Amounts are summed as decimals so cents never
// drift.
type Summary struct {
	Totals
	Count int
	// ByMonth is keyed by YYYY-MM.
	ByMonth map[string]Totals
}

type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (t Totals) Balance() decimal.Decimal { return t.Income.Sub(t.Expense) }

func (t Totals) add(tx models.Transaction) Totals {
	amt := decimal.NewFromFloat(tx.Amount)
	switch tx.Type {
	case models.Income:
		t.Income = t.Income.Add(amt)
	case models.Expense:
		t.Expense = t.Expense.Add(amt)
	}
	return t
}

// Months returns the ByMonth keys in chronological order.
func (s Summary) Months() []string {
	months := make([]string, 0, len(s.ByMonth))
	for m := range s.ByMonth {
		months = append(months, m)
	}
	slices.Sort(months)
	return months
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zero := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	sum := Summary{Totals: zero, ByMonth: make(map[string]Totals)}
	for _, tx := range s.data.Transactions {
		sum.Totals = sum.Totals.add(tx)
		sum.Count++

		month := "unknown"
		if len(tx.Date) >= 7 {
			month = tx.Date[:7]
		}
		if _, ok := sum.ByMonth[month]; !ok {
			sum.ByMonth[month] = zero
		}
		sum.ByMonth[month] = sum.ByMonth[month].add(tx)
	}
	return sum
}
