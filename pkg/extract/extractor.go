// Package extract turns statement segments into transaction drafts.
//
// Extraction is heuristic: a segment needs a date and an amount to produce a
// draft, everything else (type, description, category) is derived from the
// text around them and never fails.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/finscan/pkg/models"
	"github.com/yurifrl/finscan/pkg/segment"
)

// DefaultDescriptionLimit caps description length, in runes.
const DefaultDescriptionLimit = 100

var (
	ErrNoDate   = errors.New("no date found")
	ErrNoAmount = errors.New("no amount found")
)

type Options struct {
	DescriptionLimit int
	AmountMode       AmountMode
	// KeywordGroups replaces DefaultKeywordGroups when non-nil.
	KeywordGroups KeywordGroups
	// Workers bounds concurrent segment extraction in ExtractAll.
	Workers int
	// Now supplies the date used when a detected date is not a real one.
	Now func() time.Time
}

type Extractor struct {
	limit   int
	mode    AmountMode
	groups  KeywordGroups
	workers int
	now     func() time.Time
}

func New(opts Options) *Extractor {
	e := &Extractor{
		limit:   opts.DescriptionLimit,
		mode:    opts.AmountMode,
		groups:  opts.KeywordGroups,
		workers: opts.Workers,
		now:     opts.Now,
	}
	if e.limit <= 0 {
		e.limit = DefaultDescriptionLimit
	}
	if e.mode == "" {
		e.mode = AmountLegacy
	}
	if e.groups == nil {
		e.groups = DefaultKeywordGroups()
	}
	if e.workers <= 0 {
		e.workers = 1
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Skip records a segment that produced no draft.
type Skip struct {
	Index   int
	Segment string
	Reason  error
}

// Result holds the drafts of a document in segment order plus the segments
// that were passed over.
type Result struct {
	Drafts  []models.TransactionDraft
	Skipped []Skip
}

// Extract builds a draft from one segment. It returns ErrNoDate or
// ErrNoAmount when the segment lacks a mandatory field; those are expected
// outcomes, not failures.
func (e *Extractor) Extract(seg string, categories []models.Category) (models.TransactionDraft, error) {
	dateSpan := datePattern.FindStringIndex(seg)
	if dateSpan == nil {
		return models.TransactionDraft{}, ErrNoDate
	}

	// The date token is blanked out so its digits are never read as money.
	masked := seg[:dateSpan[0]] + strings.Repeat("#", dateSpan[1]-dateSpan[0]) + seg[dateSpan[1]:]
	amountSpan := amountPattern.FindStringIndex(masked)
	if amountSpan == nil {
		return models.TransactionDraft{}, ErrNoAmount
	}

	amount, err := e.mode.parse(seg[amountSpan[0]:amountSpan[1]])
	if err != nil {
		return models.TransactionDraft{}, fmt.Errorf("%w: %w", ErrNoAmount, err)
	}

	t := classify(seg)
	desc := e.describe(seg, dateSpan, amountSpan)
	date, _ := normalizeDate(seg[dateSpan[0]:dateSpan[1]], e.now)

	return models.TransactionDraft{
		Date:        date,
		Description: desc,
		Category:    resolveCategory(desc, t, categories, e.groups),
		Type:        t,
		Amount:      amount,
	}, nil
}

// ExtractAll runs Extract over every segment. Segments are independent, so
// they are spread over the configured workers; drafts keep segment order.
func (e *Extractor) ExtractAll(segments []string, categories []models.Category) Result {
	drafts := make([]models.TransactionDraft, len(segments))
	errs := make([]error, len(segments))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, seg := range segments {
		g.Go(func() error {
			drafts[i], errs[i] = e.Extract(seg, categories)
			return nil
		})
	}
	// Extract failures are collected per segment, never returned.
	g.Wait()

	var res Result
	for i := range segments {
		if errs[i] != nil {
			res.Skipped = append(res.Skipped, Skip{Index: i, Segment: segments[i], Reason: errs[i]})
			continue
		}
		res.Drafts = append(res.Drafts, drafts[i])
	}
	return res
}

// ExtractText segments text and extracts every segment.
func (e *Extractor) ExtractText(text string, s *segment.Segmenter, categories []models.Category) Result {
	if s == nil {
		s = segment.New(segment.DefaultMinLength)
	}
	return e.ExtractAll(s.Split(text), categories)
}

func classify(seg string) models.Type {
	lower := strings.ToLower(seg)
	for _, tok := range expenseTokens {
		if strings.Contains(lower, tok) {
			return models.Expense
		}
	}
	return models.Income
}

// describe rebuilds the segment without the date and amount spans, then
// squeezes whitespace and truncates.
func (e *Extractor) describe(seg string, a, b []int) string {
	if a[0] > b[0] {
		a, b = b, a
	}
	rest := seg[:a[0]] + seg[a[1]:b[0]] + seg[b[1]:]
	desc := strings.Join(strings.Fields(rest), " ")
	if utf8.RuneCountInString(desc) > e.limit {
		desc = string([]rune(desc)[:e.limit])
	}
	return desc
}
