package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yurifrl/finscan/pkg/csv"
	"github.com/yurifrl/finscan/pkg/models"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Inspect and edit imported transactions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List ledger transactions matching the global filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keep, err := cliFilters.toFilterFunc()
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			for _, tx := range st.Transactions() {
				if !keep(tx.TransactionDraft) {
					continue
				}
				style := expenseStyle
				if tx.Type == models.Income {
					style = incomeStyle
				}
				fmt.Printf("%-36s %s %-40s %-16s %s\n",
					tx.ID, tx.Date, tx.Description, tx.Category, style.Render(csv.FormatBRL(tx.Signed())))
			}
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a stored transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			var (
				d     models.TransactionDraft
				found bool
			)
			for _, tx := range st.Transactions() {
				if tx.ID == args[0] {
					d, found = tx.TransactionDraft, true
					break
				}
			}
			if !found {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			flags := cmd.Flags()
			if flags.Changed("date") {
				d.Date, _ = flags.GetString("date")
				if _, err := d.Time(); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}
			if flags.Changed("desc") {
				d.Description, _ = flags.GetString("desc")
			}
			if flags.Changed("cat") {
				d.Category, _ = flags.GetString("cat")
			}
			if flags.Changed("kind") {
				raw, _ := flags.GetString("kind")
				if d.Type, err = models.ParseType(raw); err != nil {
					return err
				}
			}
			if flags.Changed("amount") {
				raw, _ := flags.GetString("amount")
				amount, err := strconv.ParseFloat(raw, 64)
				if err != nil || amount < 0 {
					return fmt.Errorf("invalid --amount %q", raw)
				}
				d.Amount = amount
			}

			if err := st.UpdateTransaction(args[0], d); err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			logger.Info("transaction updated", "id", args[0])
			return nil
		},
	}
	update.Flags().String("date", "", "New date (YYYY-MM-DD)")
	update.Flags().String("desc", "", "New description")
	update.Flags().String("cat", "", "New category name")
	update.Flags().String("kind", "", "New type (income or expense)")
	update.Flags().String("amount", "", "New non-negative amount")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a transaction from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.DeleteTransaction(args[0]); err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			logger.Info("transaction deleted", "id", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, update, del)
	return cmd
}
