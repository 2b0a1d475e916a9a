package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yurifrl/finscan/pkg/csv"
	"github.com/yurifrl/finscan/pkg/models"
)

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage ledger categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			for _, c := range st.Categories() {
				style := expenseStyle
				if c.Type == models.Income {
					style = incomeStyle
				}
				fmt.Printf("%-38s %-20s %s\n", c.ID, c.Name, style.Render(string(c.Type)))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("kind")
			t, err := models.ParseType(raw)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			c, err := st.AddCategory(args[0], t)
			if err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			logger.Info("category added", "id", c.ID, "name", c.Name, "type", c.Type)
			return nil
		},
	}
	add.Flags().String("kind", string(models.Expense), "Category type (income or expense)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category no transaction uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.DeleteCategory(args[0]); err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			logger.Info("category deleted", "id", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show ledger totals and balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		sum := st.Summary()
		income, _ := sum.Income.Float64()
		expense, _ := sum.Expense.Float64()
		balance, _ := sum.Balance().Float64()

		fmt.Fprintf(os.Stdout, "Transactions: %d\n", sum.Count)
		fmt.Fprintf(os.Stdout, "Income:       %s\n", incomeStyle.Render(csv.FormatBRL(income)))
		fmt.Fprintf(os.Stdout, "Expenses:     %s\n", expenseStyle.Render(csv.FormatBRL(expense)))
		fmt.Fprintf(os.Stdout, "Balance:      %s\n", csv.FormatBRL(balance))

		if monthly, _ := cmd.Flags().GetBool("monthly"); monthly {
			fmt.Fprintln(os.Stdout)
			for _, m := range sum.Months() {
				t := sum.ByMonth[m]
				in, _ := t.Income.Float64()
				out, _ := t.Expense.Float64()
				bal, _ := t.Balance().Float64()
				fmt.Fprintf(os.Stdout, "%-8s %18s %18s %18s\n", m,
					incomeStyle.Render(csv.FormatBRL(in)),
					expenseStyle.Render(csv.FormatBRL(out)),
					csv.FormatBRL(bal))
			}
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().Bool("monthly", false, "Break totals down by month")
}
