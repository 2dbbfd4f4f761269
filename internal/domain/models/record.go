package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on every record and reminder.
// Dates carry no time component; the month key is the first 7 characters.
const DateLayout = "2006-01-02"

// HarvestRecord is one worker-submitted daily entry. Records are created by
// workers and edited or deleted by the admin; the engine itself never
// mutates them, it only derives ProcessedRecord projections.
type HarvestRecord struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Estate        string    `bson:"estate" json:"-"`
	Date          string    `bson:"date" json:"date"`
	PlotID        string    `bson:"plot_id" json:"plotId"`
	PlotName      string    `bson:"plot_name" json:"plotName"`
	FactoryID     string    `bson:"factory_id,omitempty" json:"factoryId,omitempty"`
	FactoryName   string    `bson:"factory_name,omitempty" json:"factoryName,omitempty"`
	HarvestAmount float64   `bson:"harvest_amount" json:"harvestAmount"`
	WorkerCount   int       `bson:"worker_count" json:"workerCount"`
	LaborCost     float64   `bson:"labor_cost" json:"laborCost"`
	TransportCost float64   `bson:"transport_cost" json:"transportCost"`
	OtherCost     float64   `bson:"other_cost" json:"otherCost"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Image         string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ProcessedRecord is a HarvestRecord enriched with the resolved monthly
// price. It is a pure function of (record, price book) and is recomputed on
// every snapshot change, never stored.
type ProcessedRecord struct {
	HarvestRecord

	MonthID   string  `json:"monthId"`
	UnitPrice float64 `json:"unitPrice"`
	HasPrice  bool    `json:"hasPrice"`
	Expenses  float64 `json:"expenses"`
	Income    float64 `json:"income"`
	Profit    float64 `json:"profit"`
}

// MonthID derives the YYYY-MM month key from a record date, validating that
// the date is a real calendar date first.
func MonthID(date string) (string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("invalid calendar date %q: %w", date, err)
	}
	return date[:7], nil
}
