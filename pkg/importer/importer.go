package importer

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yurifrl/finscan/pkg/models"
)

// ErrNoTransactions is returned when there is nothing to import.
var ErrNoTransactions = errors.New("no valid transactions found")

// Ledger is the part of the store the importer writes to.
type Ledger interface {
	Append(txs ...models.Transaction) error
	Save() error
}

// Importer gives drafts an identity and persists them. It knows nothing about
// CLI or HTTP so both layers share it.
type Importer struct {
	ledger Ledger
	logger *log.Logger
	newID  func() string
}

func New(ledger Ledger, logger *log.Logger) *Importer {
	return &Importer{ledger: ledger, logger: logger, newID: uuid.NewString}
}

// Import assigns a fresh UUID to every draft, appends them to the ledger and
// saves it. Drafts keep their order.
func (i *Importer) Import(drafts []models.TransactionDraft) ([]models.Transaction, error) {
	if len(drafts) == 0 {
		return nil, ErrNoTransactions
	}

	txs := make([]models.Transaction, len(drafts))
	for n, d := range drafts {
		txs[n] = models.Transaction{ID: i.newID(), TransactionDraft: d}
	}

	if err := i.ledger.Append(txs...); err != nil {
		return nil, fmt.Errorf("failed to append transactions: %w", err)
	}
	if err := i.ledger.Save(); err != nil {
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	i.logger.Info("imported transactions", "count", len(txs))
	return txs, nil
}
