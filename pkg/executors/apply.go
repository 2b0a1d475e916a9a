package executors

import (
	"fmt"

	"github.com/yurifrl/finscan/pkg/plan"
)

// Apply reconciles every statement and writes what is missing: drafts absent
// from the ledger are imported, drafts absent from the YNAB account are
// created there.
func (e *Executor) Apply(p *plan.Plan) error {
	e.logger.Debug("applying plan", "statements", len(p.Statements))

	for _, st := range p.Statements {
		sr, err := e.reconcile(p, st)
		if err != nil {
			return err
		}

		toImport := sr.Ledger.DraftsToSync()
		e.logger.Info("transactions to import", "count", len(toImport), "file", st.FilePath)
		if len(toImport) > 0 {
			if _, err := e.importer.Import(toImport); err != nil {
				return err
			}
		}

		if sr.Remote == nil || sr.Remote.MissingCount() == 0 {
			continue
		}
		batch, err := sr.Remote.Payloads(sr.AccountID)
		if err != nil {
			return err
		}
		if err := e.ynab.Transaction().CreateTransactions(e.budgetID(p), batch); err != nil {
			return fmt.Errorf("failed to create transactions: %w", err)
		}
		e.logger.Info("created transactions", "count", len(batch), "account_id", sr.AccountID)
	}
	return nil
}
