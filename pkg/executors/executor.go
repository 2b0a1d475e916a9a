package executors

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/finscan/pkg/config"
	"github.com/yurifrl/finscan/pkg/importer"
	"github.com/yurifrl/finscan/pkg/plan"
	"github.com/yurifrl/finscan/pkg/store"
	"github.com/yurifrl/finscan/pkg/ynab"
)

// Executor runs plan and apply over the statements of a plan.
type Executor struct {
	logger   *log.Logger
	config   *config.Config
	parser   plan.Parser
	store    *store.Store
	importer *importer.Importer
	ynab     *ynab.YNABClient
	out      io.Writer
}

// New wires an executor. ynabClient may be nil, in which case statements are
// reconciled against the local ledger only.
func New(logger *log.Logger, cfg *config.Config, parser plan.Parser, st *store.Store, ynabClient *ynab.YNABClient, out io.Writer) *Executor {
	return &Executor{
		logger:   logger,
		config:   cfg,
		parser:   parser,
		store:    st,
		importer: importer.New(st, logger),
		ynab:     ynabClient,
		out:      out,
	}
}
