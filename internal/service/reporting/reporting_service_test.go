package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

func processed(date, plotID string, harvest, labor, transport, other, price float64) models.ProcessedRecord {
	expenses := labor + transport + other
	income := harvest * price
	return models.ProcessedRecord{
		HarvestRecord: models.HarvestRecord{
			Date:          date,
			PlotID:        plotID,
			HarvestAmount: harvest,
			LaborCost:     labor,
			TransportCost: transport,
			OtherCost:     other,
		},
		MonthID:   date[:7],
		UnitPrice: price,
		HasPrice:  price > 0,
		Expenses:  expenses,
		Income:    income,
		Profit:    income - expenses,
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	records := []models.ProcessedRecord{
		processed("2024-05-10", "P1", 50, 500, 100, 0, 150), // priced
		processed("2024-05-12", "P2", 20, 200, 0, 50, 0),    // pending
		processed("2024-04-01", "P1", 30, 300, 0, 0, 120),   // other month
	}

	sum := svc.Summarize(records, Filter{Month: "2024-05"})

	assert.Equal(t, 70.0, sum.TotalHarvestKg)
	assert.Equal(t, 7500.0, sum.ConfirmedIncome)
	assert.Equal(t, 850.0, sum.TotalExpenses)
	assert.Equal(t, 20.0, sum.PendingHarvestKg)
	assert.Equal(t, 7500.0-850.0, sum.CashFlow)

	// Pending plus priced harvest accounts for every kilogram.
	assert.Equal(t, sum.TotalHarvestKg, sum.PendingHarvestKg+50.0)
}

func TestSummarizePlotFilter(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	records := []models.ProcessedRecord{
		processed("2024-05-10", "P1", 10, 0, 0, 0, 100),
		processed("2024-05-11", "P2", 20, 0, 0, 0, 100),
	}

	assert.Equal(t, 10.0, svc.Summarize(records, Filter{Month: "2024-05", Plot: "P1"}).TotalHarvestKg)
	assert.Equal(t, 30.0, svc.Summarize(records, Filter{Month: "2024-05", Plot: PlotAll}).TotalHarvestKg)
	assert.Equal(t, 30.0, svc.Summarize(records, Filter{Month: "2024-05"}).TotalHarvestKg)
}

func TestSummarizeDateRange(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	records := []models.ProcessedRecord{
		processed("2024-05-01", "P1", 5, 0, 0, 0, 0),
		processed("2024-05-10", "P1", 10, 0, 0, 0, 0),
		processed("2024-05-20", "P1", 20, 0, 0, 0, 0),
	}

	sum := svc.Summarize(records, Filter{From: "2024-05-10", To: "2024-05-20"})
	assert.Equal(t, 30.0, sum.TotalHarvestKg)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	assert.Equal(t, models.Summary{}, svc.Summarize(nil, Filter{Month: "2024-05"}))
}

func TestSeriesByDayIsDense(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	records := []models.ProcessedRecord{
		processed("2024-05-03", "P1", 10, 100, 0, 0, 150),
		processed("2024-05-03", "P2", 5, 50, 0, 0, 150),
		processed("2024-05-31", "P1", 7, 0, 0, 0, 0),
		processed("2024-04-03", "P1", 99, 0, 0, 0, 0), // other month
	}

	series := svc.SeriesByDay(records, "2024-05")
	require.Len(t, series, 31)

	for i, point := range series {
		assert.Equal(t, i+1, point.Day)
	}

	assert.Equal(t, 15.0, series[2].HarvestKg)
	assert.Equal(t, 10*150.0-100+5*150.0-50, series[2].Profit)
	assert.Equal(t, 7.0, series[30].HarvestKg)
	assert.Zero(t, series[0].HarvestKg)
}

func TestSeriesByMonthIncludesEmptyMonths(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	records := []models.ProcessedRecord{
		processed("2024-05-10", "P1", 50, 500, 100, 0, 150),
	}

	now := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	series := svc.SeriesByMonth(records, now, 12)
	require.Len(t, series, 12)

	assert.Equal(t, "2024-01", series[0].Month)
	assert.Equal(t, "2024-12", series[11].Month)

	var active int
	for _, point := range series {
		if point.Month == "2024-05" {
			active++
			assert.Equal(t, 50.0, point.HarvestKg)
			assert.Equal(t, 6900.0, point.Profit)
			continue
		}
		assert.Zero(t, point.HarvestKg, point.Month)
		assert.Zero(t, point.Profit, point.Month)
	}
	assert.Equal(t, 1, active)
}

func TestSeriesByMonthEndOfMonthAnchor(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	// Jan 31 must not skip or duplicate months when stepping back.
	now := time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)
	series := svc.SeriesByMonth(nil, now, 3)
	require.Len(t, series, 3)
	assert.Equal(t, "2023-11", series[0].Month)
	assert.Equal(t, "2023-12", series[1].Month)
	assert.Equal(t, "2024-01", series[2].Month)
}

func TestDistributeSkipsZeroBuckets(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	records := []models.ProcessedRecord{
		processed("2024-05-10", "P1", 50, 500, 100, 0, 150),
		processed("2024-05-11", "P1", 20, 200, 0, 0, 150),
	}

	buckets := svc.Distribute(records)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.ExpenseBucket{Name: BucketLabor, Amount: 700}, buckets[0])
	assert.Equal(t, models.ExpenseBucket{Name: BucketTransport, Amount: 100}, buckets[1])
}

func TestDistributeEmpty(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	assert.Empty(t, svc.Distribute(nil))
}
