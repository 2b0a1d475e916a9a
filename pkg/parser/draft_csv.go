package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yurifrl/finscan/pkg/models"
)

// ParseDraftCSV reads back a CSV written by this tool
// (Date,Description,Category,Type,Amount) so a reviewed export can go through
// plan and apply like a freshly scanned statement.
func (p *Parser) ParseDraftCSV(data []byte) ([]models.TransactionDraft, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1 // validated per line

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	start := 0
	if len(records[0]) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		start = 1
	}

	drafts := make([]models.TransactionDraft, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(models.CSVHeader) {
			p.logger.Debug("csv line has too few fields, skipping", "line", i+1, "fields", len(rec))
			continue
		}

		date := strings.TrimSpace(rec[0])
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			p.logger.Debug("invalid date, skipping", "line", i+1, "date", date)
			continue
		}
		t, err := models.ParseType(rec[3])
		if err != nil {
			p.logger.Debug("invalid type, skipping", "line", i+1, "err", err)
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
		if err != nil || amount < 0 {
			p.logger.Debug("invalid amount, skipping", "line", i+1, "amount", rec[4])
			continue
		}

		drafts = append(drafts, models.TransactionDraft{
			Date:        date,
			Description: strings.TrimSpace(rec[1]),
			Category:    strings.TrimSpace(rec[2]),
			Type:        t,
			Amount:      amount,
		})
	}
	return drafts, nil
}
