package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/findmyfood/internal/domain"
)

// Period is a budget reporting window.
type Period string

// Supported periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty means day.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q", domain.ErrInvalidRequest, s)
	}
}

// Report is the content token spend of one period.
// Limit is 0 and Remaining is -1 when the period is unlimited.
type Report struct {
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Model       string
	TokensUsed  int64
	Limit       int64
	Remaining   int64
	Exhausted   bool
}

// Service handles usage reporting.
type Service struct {
	br    BudgetReader
	model string
	now   func() time.Time
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader, model string) *Service {
	return &Service{br: br, model: model, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now()
	r := Report{Period: period, Model: s.model, Remaining: -1}

	switch period {
	case PeriodMonth:
		r.PeriodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.AddDate(0, 1, 0)
	default:
		r.Period = PeriodDay
		r.PeriodStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.Add(24 * time.Hour)
	}

	if s.br == nil {
		return r
	}
	snap := s.br.Snapshot()
	if r.Period == PeriodMonth {
		r.TokensUsed, r.Limit, r.Remaining = snap.MonthlyUsed, snap.MonthlyLimit, snap.MonthlyRemaining
	} else {
		r.TokensUsed, r.Limit, r.Remaining = snap.DailyUsed, snap.DailyLimit, snap.DailyRemaining
	}
	r.Exhausted = r.Limit > 0 && r.Remaining <= 0
	return r
}
