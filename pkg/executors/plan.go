package executors

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/finscan/pkg/csv"
	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/plan"
)

var (
	syncedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	addedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// StatementReport is the reconciliation of one plan statement against the
// ledger and, when an account is configured, against YNAB.
type StatementReport struct {
	Statement plan.Statement
	AccountID string
	Ledger    *Report
	Remote    *Report
}

func (e *Executor) budgetID(p *plan.Plan) string {
	if p.YNAB.BudgetID != "" {
		return p.YNAB.BudgetID
	}
	return e.config.YNAB.BudgetID
}

func (e *Executor) reconcile(p *plan.Plan, st plan.Statement) (*StatementReport, error) {
	drafts, err := st.Drafts(e.parser, e.store.Categories())
	if err != nil {
		return nil, err
	}

	sr := &StatementReport{Statement: st, AccountID: p.AccountID(st)}
	sr.Ledger = BuildReport(drafts, FromLedger(e.store.Transactions()), e.config.UseFingerprint)

	if e.ynab != nil && sr.AccountID != "" {
		budgetID := e.budgetID(p)
		if budgetID == "" {
			return nil, fmt.Errorf("statement %s has account %q but no budget_id is configured", st.FilePath, st.Account)
		}
		remote, err := e.ynab.Transaction().GetTransactionsByAccount(budgetID, sr.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch transactions for account %s: %w", sr.AccountID, err)
		}
		sr.Remote = BuildReport(drafts, FromYNAB(remote), e.config.UseFingerprint)
	}
	return sr, nil
}

// Plan reconciles every statement of the plan and prints a preview. Nothing
// is written.
func (e *Executor) Plan(p *plan.Plan) ([]*StatementReport, error) {
	reports := make([]*StatementReport, 0, len(p.Statements))
	for _, st := range p.Statements {
		e.logger.Debug("planning statement", "file", st.FilePath)
		sr, err := e.reconcile(p, st)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("processing plan report", "total", len(sr.Ledger.Items), "in_sync", sr.Ledger.InSyncCount(), "to_add", sr.Ledger.MissingCount())
		e.preview(sr)
		reports = append(reports, sr)
	}
	return reports, nil
}

func (e *Executor) preview(sr *StatementReport) {
	fmt.Fprintln(e.out, headerStyle.Render(sr.Statement.FilePath))
	for _, m := range sr.Ledger.Items {
		line := previewLine(m.Draft)
		if m.Status == Synced {
			fmt.Fprintln(e.out, syncedStyle.Render("= "+line))
			continue
		}
		fmt.Fprintln(e.out, addedStyle.Render("+ "+line))
	}

	if sr.Ledger.MissingCount() == 0 {
		fmt.Fprintf(e.out, "\nPlan: All %d transaction(s) are in the ledger\n", sr.Ledger.InSyncCount())
	} else {
		fmt.Fprintf(e.out, "\nPlan: %d transaction(s) will be added to the ledger, %d already there\n", sr.Ledger.MissingCount(), sr.Ledger.InSyncCount())
	}
	if sr.Remote != nil {
		fmt.Fprintf(e.out, "YNAB account %s: %d to create, %d in sync\n", sr.AccountID, sr.Remote.MissingCount(), sr.Remote.InSyncCount())
	}
	fmt.Fprintln(e.out)
}

func previewLine(d models.TransactionDraft) string {
	return fmt.Sprintf("%s | %-30s | %-14s | %-7s | %s | %s",
		d.Date, d.Description, d.Category, d.Type, csv.FormatBRL(d.Signed()), d.Fingerprint())
}
