package ynab

import (
	"fmt"
	"strings"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/account"
	"github.com/brunomvsouza/ynab.go/api/budget"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/finscan/pkg/models"
)

// memoPrefix marks memos written by finscan; the draft fingerprint follows it.
const memoPrefix = "finscan:"

// YNABClient wraps the YNAB client and adds finscan specific helpers.
type YNABClient struct {
	client ynab.ClientServicer
}

type TransactionService struct {
	original *transaction.Service
}

// Transaction is a YNAB transaction plus the fingerprint finscan stored in
// its memo, if any.
type Transaction struct {
	*transaction.Transaction
	fingerprint string
}

func extractFingerprint(tx *transaction.Transaction) string {
	if tx == nil || tx.Memo == nil {
		return ""
	}
	memo := strings.TrimSpace(*tx.Memo)
	if !strings.HasPrefix(memo, memoPrefix) {
		return ""
	}
	fp, _, _ := strings.Cut(strings.TrimPrefix(memo, memoPrefix), " ")
	return fp
}

func New(token string) *YNABClient {
	return &YNABClient{client: ynab.NewClient(token)}
}

func (c *YNABClient) Transaction() *TransactionService {
	return &TransactionService{original: c.client.Transaction()}
}

func (c *YNABClient) Budget() *budget.Service {
	return c.client.Budget()
}

func (c *YNABClient) Account() *account.Service {
	return c.client.Account()
}

func (ts *TransactionService) GetTransactionsByAccount(budgetID, accountID string) ([]*Transaction, error) {
	original, err := ts.original.GetTransactionsByAccount(budgetID, accountID, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*Transaction, 0, len(original))
	for _, tx := range original {
		out = append(out, Wrap(tx))
	}
	return out, nil
}

// CreateTransactions creates multiple transactions in one API call.
func (ts *TransactionService) CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) error {
	if len(payloads) == 0 {
		return nil
	}
	_, err := ts.original.CreateTransactions(budgetID, payloads)
	return err
}

func Wrap(tx *transaction.Transaction) *Transaction {
	return &Transaction{Transaction: tx, fingerprint: extractFingerprint(tx)}
}

func (t *Transaction) Fingerprint() string {
	return t.fingerprint
}

// Milliunits converts a signed draft amount to YNAB milliunits.
func Milliunits(d models.TransactionDraft) int64 {
	return decimal.NewFromFloat(d.Signed()).Round(2).Shift(3).IntPart()
}

// Memo is the memo written for a draft: the fingerprint marker followed by the
// category, so reconciliation can find it again.
func Memo(d models.TransactionDraft) string {
	return fmt.Sprintf("%s%s %s", memoPrefix, d.Fingerprint(), d.Category)
}

// Payload converts a draft into a transaction to create on accountID.
func Payload(d models.TransactionDraft, accountID string) (transaction.PayloadTransaction, error) {
	date, err := api.DateFromString(d.Date)
	if err != nil {
		return transaction.PayloadTransaction{}, fmt.Errorf("invalid date %q: %w", d.Date, err)
	}
	payee := d.Description
	memo := Memo(d)
	return transaction.PayloadTransaction{
		AccountID: accountID,
		Date:      date,
		Amount:    Milliunits(d),
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  true,
		PayeeName: &payee,
		Memo:      &memo,
	}, nil
}
