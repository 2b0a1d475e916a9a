package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/finscan/pkg/config"
	"github.com/yurifrl/finscan/pkg/executors"
	"github.com/yurifrl/finscan/pkg/parser"
	"github.com/yurifrl/finscan/pkg/plan"
	"github.com/yurifrl/finscan/pkg/service"
	"github.com/yurifrl/finscan/pkg/store"
	"github.com/yurifrl/finscan/pkg/ynab"
)

var (
	cliFilters filters
	cfgFile    string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "finscan",
	Short:         "Scan bank statements into categorized transactions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "finscan",
			Level:           cfg.Level(),
		})
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newParser() *parser.Parser {
	return parser.New(logger, cfg.Extractor(), parser.WithSegmenter(cfg.Segmenter()))
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.StorePath)
}

var extractCmd = &cobra.Command{
	Use:   "extract [flags] <path>...",
	Short: "Extract transactions from statements and print them as CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		dump, _ := cmd.Flags().GetBool("dump")
		processor, err := NewFileProcessor(logger, newParser(), st.Categories(), &cliFilters, dump)
		if err != nil {
			return err
		}

		for _, pattern := range args {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf("no files found matching pattern %s", pattern)
			}

			for _, match := range matches {
				fileInfo, err := os.Stat(match)
				if err != nil {
					logger.Warn("failed to stat file", "error", err, "file", match)
					continue
				}
				if fileInfo.IsDir() {
					if err := processor.ProcessDirectory(match); err != nil {
						logger.Warn("failed to process directory", "error", err, "dir", match)
					}
					continue
				}
				if err := processor.ProcessFile(match); err != nil {
					if len(args) == 1 && len(matches) == 1 {
						return err
					}
					logger.Warn("failed to process file", "error", err, "file", match)
				}
			}
		}
		return nil
	},
}

// newExecutor loads the plan and wires an executor. A YNAB client is created
// only when the plan maps statements to accounts and a token is available.
func newExecutor(planPath string) (*executors.Executor, *plan.Plan, error) {
	p, err := plan.Load(planPath)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	var client *ynab.YNABClient
	tokenEnv, token := cfg.YNAB.TokenEnv, cfg.Token()
	if p.YNAB.TokenEnv != "" {
		tokenEnv, token = p.YNAB.TokenEnv, os.Getenv(p.YNAB.TokenEnv)
	}
	if token != "" {
		client = ynab.New(token)
	} else {
		for _, s := range p.Statements {
			if p.AccountID(s) != "" {
				logger.Warn("no YNAB token, reconciling against the ledger only", "env", tokenEnv)
				break
			}
		}
	}
	return executors.New(logger, cfg, newParser(), st, client, os.Stdout), p, nil
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview what apply would write (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, p, err := newExecutor(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Plan preview for %s\n", args[0])
		p.Print(os.Stdout)
		fmt.Println()
		_, err = exec.Plan(p)
		return err
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan_file>",
	Short: "Import the plan's statements into the ledger and YNAB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, p, err := newExecutor(args[0])
		if err != nil {
			return err
		}
		return exec.Apply(p)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Convert every statement of a directory into <name>-finscan.csv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		processor := service.NewProcessor(cfg.Output, logger, newParser(), st.Categories())
		written, err := processor.ProcessDirectory(args[0])
		if err != nil {
			return err
		}
		logger.Info("batch complete", "files", len(written))
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is finscan.yaml)")
	rootCmd.PersistentFlags().String("store", "finscan-ledger.yaml", "Ledger file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("amount-mode", "legacy", "Amount parsing: legacy or locale")
	rootCmd.PersistentFlags().Int("workers", 1, "Segments extracted concurrently")
	rootCmd.PersistentFlags().Int("min-length", 10, "Shortest segment considered, in characters")
	rootCmd.PersistentFlags().Int("description-limit", 100, "Description length cap, in characters")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum amount")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.category, "category", "", "Filter by category (case insensitive)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.txType, "type", "", "Filter by type (income or expense)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.description, "description", "", "Filter by description substring (case insensitive)")

	extractCmd.Flags().Bool("dump", false, "Pretty-print the drafts instead of CSV")
	batchCmd.Flags().StringP("output", "o", "", "Output directory (default: next to each input)")
	planCmd.Flags().String("budget", "", "YNAB budget id when the plan has none")
	applyCmd.Flags().String("budget", "", "YNAB budget id when the plan has none")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(transactionsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
