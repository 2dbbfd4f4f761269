package models

import "time"

// Summary is the aggregate a dashboard or report view is built from.
// ConfirmedIncome counts only priced records; expenses are real money spent
// regardless of price status, so TotalExpenses is unconditional.
type Summary struct {
	TotalHarvestKg   float64 `json:"totalHarvestKg"`
	ConfirmedIncome  float64 `json:"confirmedIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	PendingHarvestKg float64 `json:"pendingHarvestKg"`
	CashFlow         float64 `json:"cashFlow"`
}

// DayPoint is one row of the per-day series for a month. The series is
// dense over days 1..31 so two months can be charted side by side.
type DayPoint struct {
	Day       int     `json:"day"`
	HarvestKg float64 `json:"harvestKg"`
	Profit    float64 `json:"profit"`
}

// MonthPoint is one row of the trailing-months trend series. Months with no
// activity appear as zero rows to keep the trend continuous.
type MonthPoint struct {
	Month     string  `json:"month"`
	HarvestKg float64 `json:"harvestKg"`
	Profit    float64 `json:"profit"`
}

// ExpenseBucket is one slice of the expense distribution. Only positive
// buckets are emitted.
type ExpenseBucket struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ReportSnapshot is a persisted nightly aggregate of the current month,
// written by the scheduler for off-device history.
type ReportSnapshot struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Estate       string    `bson:"estate" json:"-"`
	Date         string    `bson:"date" json:"date"`
	Month        string    `bson:"month" json:"month"`
	Summary      Summary   `bson:"summary" json:"summary"`
	DueReminders int       `bson:"due_reminders" json:"dueReminders"`
	ComputedAt   time.Time `bson:"computed_at" json:"computedAt"`
}
