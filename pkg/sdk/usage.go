package findmyfood

import (
	"context"
	"fmt"
	"time"

	usageuc "github.com/kailas-cloud/findmyfood/internal/usecase/usage"
)

// UsagePeriod is the budget window of a usage report.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport is the content token spend of one budget window.
// Remaining is -1 when the window has no limit.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Model       string
	TokensUsed  int64
	TokensLimit int64
	Remaining   int64
	IsExhausted bool
}

// Usage reports token spend against the WithContentBudget limits.
// An empty period means PeriodDay.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) (r UsageReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, err) }()

	p, err := usageuc.ParsePeriod(string(period))
	if err != nil {
		return UsageReport{}, fmt.Errorf("usage: %w", err)
	}
	report := c.usageSvc.GetReport(ctx, p)
	return UsageReport{
		Period:      UsagePeriod(report.Period),
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
		Model:       report.Model,
		TokensUsed:  report.TokensUsed,
		TokensLimit: report.Limit,
		Remaining:   report.Remaining,
		IsExhausted: report.Exhausted,
	}, nil
}

type usageUseCase interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}
