package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/finscan/pkg/config"
	"github.com/yurifrl/finscan/pkg/parser"
	"github.com/yurifrl/finscan/pkg/server"
	"github.com/yurifrl/finscan/pkg/store"
)

func main() {
	var (
		port    = pflag.String("port", "3000", "Server port")
		cfgFile = pflag.StringP("config", "c", "", "Config file (default is finscan.yaml)")
	)
	pflag.String("store", "finscan-ledger.yaml", "Ledger file")
	pflag.String("log-level", "info", "Log level (debug, info, warn, error)")
	pflag.String("amount-mode", "legacy", "Amount parsing: legacy or locale")
	pflag.Int("workers", 1, "Segments extracted concurrently")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "finscan",
	})

	cfg, err := config.Build(*cfgFile, pflag.CommandLine)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		logger.Fatal("failed to open ledger", "path", cfg.StorePath, "err", err)
	}

	p := parser.New(logger, cfg.Extractor(), parser.WithSegmenter(cfg.Segmenter()))
	srv := server.New(cfg, logger, p, st)
	addr := fmt.Sprintf("0.0.0.0:%s", *port)
	logger.Info("starting server", "addr", addr, "ledger", st.Path())
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
