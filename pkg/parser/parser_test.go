package parser

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/finscan/pkg/decode"
	"github.com/yurifrl/finscan/pkg/extract"
	"github.com/yurifrl/finscan/pkg/models"
)

func newTestParser(opts ...Option) *Parser {
	e := extract.New(extract.Options{
		Now: func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) },
	})
	return New(log.New(io.Discard), e, opts...)
}

func TestProcessBytes(t *testing.T) {
	content := []byte(`EXTRATO CONTA CORRENTE
17/03/2025 PIX TRANSF ID_A15/03 debit 2327,00
17/03/2025 MOBILE PAG TIT 426XXXXXX payment 287,00
saldo do dia
19/03/2025 Payroll ACME LTDA 1900,00`)

	output, err := newTestParser().ProcessBytes(content, "extrato.txt", models.DefaultCategories())
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	expected := []models.TransactionDraft{
		{Date: "2025-03-17", Description: "PIX TRANSF ID_A15/03 debit", Category: "Food", Type: models.Expense, Amount: 2327},
		{Date: "2025-03-17", Description: "MOBILE PAG TIT 426XXXXXX payment", Category: "Food", Type: models.Expense, Amount: 287},
		{Date: "2025-03-19", Description: "Payroll ACME LTDA", Category: "Salary", Type: models.Income, Amount: 1900},
	}

	if len(output) != len(expected) {
		t.Fatalf("Expected %d transactions, got %d: %+v", len(expected), len(output), output)
	}
	for i, exp := range expected {
		if exp != output[i] {
			t.Errorf("Transaction %d mismatch:\nExpected: %+v\nGot: %+v", i, exp, output[i])
		}
	}
}

func TestProcessBytesMalformedDocument(t *testing.T) {
	output, err := newTestParser().ProcessBytes([]byte("%PDF-1.4 truncated"), "statement.pdf", models.DefaultCategories())
	if err == nil {
		t.Fatal("expected an error for a malformed pdf")
	}
	if !errors.Is(err, decode.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if output != nil {
		t.Errorf("expected no drafts, got %+v", output)
	}
}

func TestProcessBytesUnsupported(t *testing.T) {
	_, err := newTestParser().ProcessBytes([]byte("x"), "receipt.png", nil)
	if !errors.Is(err, decode.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}

	// A known format with no decoder registered is unsupported too.
	p := newTestParser(WithDecoders(decode.NewRegistry(decode.TextDecoder{})))
	_, err = p.ProcessBytes([]byte("x"), "sheet.xls", nil)
	if !errors.Is(err, decode.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestProcessBytesNoTransactions(t *testing.T) {
	output, err := newTestParser().ProcessBytes([]byte("Nothing to see here. Really nothing"), "empty.txt", nil)
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(output) != 0 {
		t.Errorf("expected zero drafts, got %+v", output)
	}
}

type stubDecoder struct{ text string }

func (stubDecoder) Format() decode.Format { return decode.PDF }

func (s stubDecoder) Decode([]byte) (string, error) { return s.text, nil }

func TestProcessBytesJoinsPages(t *testing.T) {
	// Two pages of a PDF arrive joined by a space; the ". " break still splits them.
	text := "05/01/2024 Uber trip debit R$ 32,10. 06/01/2024 Restaurant purchase R$ 80,00 "
	p := newTestParser(WithDecoders(decode.NewRegistry(stubDecoder{text: text})))

	output, err := p.ProcessBytes(nil, "scan.pdf", models.DefaultCategories())
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(output) != 2 {
		t.Fatalf("expected 2 drafts, got %+v", output)
	}
	if output[0].Category != "Transportation" || output[1].Category != "Food" {
		t.Errorf("unexpected categories: %q, %q", output[0].Category, output[1].Category)
	}
}
