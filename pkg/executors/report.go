package executors

import (
	"fmt"

	"github.com/brunomvsouza/ynab.go/api/transaction"

	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/ynab"
)

// Status is the reconciliation result for a scanned draft.
type Status int

const (
	Synced Status = iota
	ToAdd
)

func (s Status) String() string {
	if s == Synced {
		return "synced"
	}
	return "to_add"
}

// Known is a transaction that already exists somewhere, the local ledger or
// a YNAB account. Amount is signed.
type Known struct {
	Fingerprint string
	Date        string
	Description string
	Amount      float64
}

func (k Known) key() string {
	return fmt.Sprintf("%.2f|%s|%s", k.Amount, k.Description, k.Date)
}

func FromLedger(txs []models.Transaction) []Known {
	out := make([]Known, len(txs))
	for i, tx := range txs {
		out[i] = Known{Fingerprint: tx.Fingerprint(), Date: tx.Date, Description: tx.Description, Amount: tx.Signed()}
	}
	return out
}

func FromYNAB(txs []*ynab.Transaction) []Known {
	out := make([]Known, 0, len(txs))
	for _, rt := range txs {
		payee := ""
		if rt.PayeeName != nil {
			payee = *rt.PayeeName
		}
		out = append(out, Known{
			Fingerprint: rt.Fingerprint(),
			Date:        rt.Date.Format(models.DateLayout),
			Description: payee,
			Amount:      float64(rt.Amount) / 1000.0,
		})
	}
	return out
}

// Entry links a draft with the known transaction it matched, if any.
type Entry struct {
	Draft  models.TransactionDraft
	Match  *Known
	Status Status
}

type Report struct {
	Items  []Entry
	toSync []models.TransactionDraft
}

// BuildReport matches drafts against known transactions, by fingerprint or by
// amount, description and date. Each known transaction absorbs at most one
// draft, so two identical lines on a statement need two known copies to be
// considered synced.
func BuildReport(drafts []models.TransactionDraft, known []Known, useFingerprint bool) *Report {
	idx := make(map[string][]int, len(known))
	for i, k := range known {
		key := k.key()
		if useFingerprint {
			key = k.Fingerprint
		}
		if key == "" {
			continue
		}
		idx[key] = append(idx[key], i)
	}

	report := &Report{Items: make([]Entry, 0, len(drafts))}
	for _, d := range drafts {
		key := Known{Date: d.Date, Description: d.Description, Amount: d.Signed()}.key()
		if useFingerprint {
			key = d.Fingerprint()
		}

		entry := Entry{Draft: d, Status: ToAdd}
		if hits := idx[key]; len(hits) > 0 {
			match := known[hits[0]]
			idx[key] = hits[1:]
			entry.Match = &match
			entry.Status = Synced
		} else {
			report.toSync = append(report.toSync, d)
		}
		report.Items = append(report.Items, entry)
	}
	return report
}

func (r *Report) InSyncCount() int {
	return len(r.Items) - len(r.toSync)
}

func (r *Report) MissingCount() int {
	return len(r.toSync)
}

// DraftsToSync returns the drafts no known transaction accounts for.
func (r *Report) DraftsToSync() []models.TransactionDraft {
	return r.toSync
}

// Payloads converts the drafts that still need syncing into YNAB payloads.
func (r *Report) Payloads(accountID string) ([]transaction.PayloadTransaction, error) {
	out := make([]transaction.PayloadTransaction, 0, len(r.toSync))
	for _, d := range r.toSync {
		p, err := ynab.Payload(d, accountID)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
