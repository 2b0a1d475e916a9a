package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/finscan/pkg/config"
	"github.com/yurifrl/finscan/pkg/csv"
	"github.com/yurifrl/finscan/pkg/decode"
	"github.com/yurifrl/finscan/pkg/executors"
	"github.com/yurifrl/finscan/pkg/importer"
	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/parser"
	"github.com/yurifrl/finscan/pkg/service"
	"github.com/yurifrl/finscan/pkg/store"
)

// maxUpload bounds the multipart body of /api/process.
const maxUpload = 32 << 20

// Server exposes statement scanning and the ledger over HTTP.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	parser   *parser.Parser
	store    *store.Store
	importer *importer.Importer
	drafts   sync.Map // processed file name -> []models.TransactionDraft
}

func New(cfg *config.Config, logger *log.Logger, p *parser.Parser, st *store.Store) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		parser:   p,
		store:    st,
		importer: importer.New(st, logger),
	}
	s.setupRoutes()
	return s
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
	s.mux.HandleFunc("/api/categories", s.withLogging(s.handleCategories))
}

// Transaction is a draft as returned to clients, with its reconciliation
// status against the ledger.
type Transaction struct {
	models.TransactionDraft
	Fingerprint string `json:"fingerprint"`
	Status      string `json:"status"`
}

// ---------------- process handler ----------------

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}

	drafts, err := s.parser.ProcessBytes(data, header.Filename, s.store.Categories())
	switch {
	case errors.Is(err, decode.ErrUnsupported):
		s.respondError(w, r, http.StatusUnsupportedMediaType, "unsupported file type", err)
		return
	case errors.Is(err, decode.ErrDecode):
		s.respondError(w, r, http.StatusUnprocessableEntity, "could not read the document", err)
		return
	case err != nil:
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return
	}

	filename := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)) + service.OutputSuffix
	s.drafts.Store(filename, drafts)

	report := executors.BuildReport(drafts, executors.FromLedger(s.store.Transactions()), s.config.UseFingerprint)
	txs := make([]Transaction, len(report.Items))
	for i, entry := range report.Items {
		txs[i] = Transaction{TransactionDraft: entry.Draft, Fingerprint: entry.Draft.Fingerprint(), Status: entry.Status.String()}
	}
	s.logger.Info("processed statement", "file", header.Filename, "count", len(txs), "to_add", report.MissingCount())

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"file":    filename,
		"data":    txs,
		"count":   len(txs),
		"to_add":  report.MissingCount(),
		"in_sync": report.InSyncCount(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// ---------------- import handler ----------------

type importRequest struct {
	File         string                    `json:"file"`
	Transactions []models.TransactionDraft `json:"transactions"`
	// All imports drafts already in the ledger too.
	All bool `json:"all"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid json body", err)
		return
	}

	drafts := req.Transactions
	if req.File != "" {
		value, ok := s.drafts.Load(req.File)
		if !ok {
			s.respondError(w, r, http.StatusNotFound, "file not found", nil)
			return
		}
		drafts = value.([]models.TransactionDraft)
	}
	for _, d := range drafts {
		if err := validDraft(d); err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	skipped := 0
	if !req.All {
		report := executors.BuildReport(drafts, executors.FromLedger(s.store.Transactions()), s.config.UseFingerprint)
		skipped = report.InSyncCount()
		drafts = report.DraftsToSync()
	}

	txs, err := s.importer.Import(drafts)
	if errors.Is(err, importer.ErrNoTransactions) {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to import transactions", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"imported":     len(txs),
		"skipped":      skipped,
		"transactions": txs,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func validDraft(d models.TransactionDraft) error {
	if _, err := d.Time(); err != nil {
		return fmt.Errorf("invalid date %q", d.Date)
	}
	if _, err := models.ParseType(string(d.Type)); err != nil {
		return fmt.Errorf("invalid type %q", d.Type)
	}
	if d.Amount < 0 {
		return fmt.Errorf("invalid amount %.2f", d.Amount)
	}
	return nil
}

// ---------------- file download handler ----------------

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	filename := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if filename == "" {
		s.respondError(w, r, http.StatusBadRequest, "filename required", nil)
		return
	}

	value, ok := s.drafts.Load(filename)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	drafts, ok := value.([]models.TransactionDraft)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(csv.Create(drafts, nil)); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

// ---------------- categories handler ----------------

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	categories := s.store.Categories()
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := models.ParseType(raw)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid type", err)
			return
		}
		categories = models.OfType(categories, t)
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"categories": categories,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
