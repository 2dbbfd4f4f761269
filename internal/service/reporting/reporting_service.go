// Package reporting folds processed records into the aggregates behind the
// dashboard, history and trend views. All folds are commutative sums over
// an immutable snapshot; series outputs are built in chronological order.
package reporting

import (
	"time"

	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// PlotAll is the sentinel plot filter value that bypasses plot matching.
const PlotAll = "all"

// Expense category names used in the distribution output.
const (
	BucketLabor     = "labor"
	BucketTransport = "transport"
	BucketOther     = "other"
)

const monthLayout = "2006-01"

// Filter selects the records contributing to a Summary. Zero-valued fields
// do not constrain; From/To are inclusive calendar dates.
type Filter struct {
	Month string
	Plot  string
	From  string
	To    string
}

// Match reports whether a processed record satisfies the filter. Date range
// comparison works lexicographically because dates are YYYY-MM-DD.
func (f Filter) Match(r models.ProcessedRecord) bool {
	if f.Month != "" && r.MonthID != f.Month {
		return false
	}
	if f.Plot != "" && f.Plot != PlotAll && r.PlotID != f.Plot {
		return false
	}
	if f.From != "" && r.Date < f.From {
		return false
	}
	if f.To != "" && r.Date > f.To {
		return false
	}
	return true
}

// Service computes summaries and series for presentation and export.
type Service struct {
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Summarize folds the filtered records into dashboard totals. An empty
// selection yields a zero Summary. Income counts only priced records;
// unpriced harvest accumulates as pending kilograms instead.
func (s *Service) Summarize(records []models.ProcessedRecord, f Filter) models.Summary {
	var sum models.Summary

	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		sum.TotalHarvestKg += r.HarvestAmount
		sum.TotalExpenses += r.Expenses
		if r.HasPrice {
			sum.ConfirmedIncome += r.Income
		} else {
			sum.PendingHarvestKg += r.HarvestAmount
		}
	}

	sum.CashFlow = sum.ConfirmedIncome - sum.TotalExpenses
	return sum
}

// SeriesByDay produces the per-day harvest/profit series for one month.
// The output always has 31 rows, days 1..31 in order, with zero rows for
// inactive days, so two months line up when charted together.
func (s *Service) SeriesByDay(records []models.ProcessedRecord, monthID string) []models.DayPoint {
	series := make([]models.DayPoint, 31)
	for i := range series {
		series[i].Day = i + 1
	}

	for _, r := range records {
		if r.MonthID != monthID {
			continue
		}
		day, err := time.Parse(models.DateLayout, r.Date)
		if err != nil {
			s.logger.Debug("skip record with unparseable date in day series",
				zap.String("record_id", r.ID), zap.String("date", r.Date))
			continue
		}
		idx := day.Day() - 1
		series[idx].HarvestKg += r.HarvestAmount
		series[idx].Profit += r.Profit
	}

	return series
}

// SeriesByMonth produces the trailing-months trend ending at the month of
// now. Unlike the daily series callers rely on empty months being present,
// so every month in the window gets a row even with no records.
func (s *Service) SeriesByMonth(records []models.ProcessedRecord, now time.Time, monthsBack int) []models.MonthPoint {
	if monthsBack <= 0 {
		return nil
	}

	byMonth := make(map[string]*models.MonthPoint, monthsBack)
	series := make([]models.MonthPoint, 0, monthsBack)

	// Anchor on the first of the month so AddDate cannot overflow into a
	// neighboring month on day 29-31.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := monthsBack - 1; i >= 0; i-- {
		mid := anchor.AddDate(0, -i, 0).Format(monthLayout)
		series = append(series, models.MonthPoint{Month: mid})
	}
	for i := range series {
		byMonth[series[i].Month] = &series[i]
	}

	for _, r := range records {
		point, ok := byMonth[r.MonthID]
		if !ok {
			continue
		}
		point.HarvestKg += r.HarvestAmount
		point.Profit += r.Profit
	}

	return series
}

// Distribute sums expenses per category. Zero-valued categories are left
// out, so the buckets add up to TotalExpenses only when all three are
// positive.
func (s *Service) Distribute(records []models.ProcessedRecord) []models.ExpenseBucket {
	var labor, transport, other float64
	for _, r := range records {
		labor += r.LaborCost
		transport += r.TransportCost
		other += r.OtherCost
	}

	buckets := make([]models.ExpenseBucket, 0, 3)
	for _, b := range []models.ExpenseBucket{
		{Name: BucketLabor, Amount: labor},
		{Name: BucketTransport, Amount: transport},
		{Name: BucketOther, Amount: other},
	} {
		if b.Amount > 0 {
			buckets = append(buckets, b)
		}
	}
	return buckets
}
