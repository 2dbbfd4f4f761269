package models

import "time"

// MonthPrices maps a factory id to the agreed buy-back price per kilogram
// for one month. A table may be partially populated; factories without an
// entry are simply unpriced for that month.
type MonthPrices map[string]float64

// PriceBook maps a YYYY-MM month key to that month's price table. Price
// tables routinely arrive after harvest records for the month already
// exist, so absence of a month or a factory is a normal long-lived state.
type PriceBook map[string]MonthPrices

// Price looks up the stored value for a month/factory pair. Missing months
// and missing factories read as zero.
func (b PriceBook) Price(monthID, factoryID string) float64 {
	return b[monthID][factoryID]
}

// MonthlyPriceDocument is the stored shape of one month's price table.
type MonthlyPriceDocument struct {
	Estate    string      `bson:"estate" json:"-"`
	Month     string      `bson:"month" json:"month"`
	Prices    MonthPrices `bson:"prices" json:"prices"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updatedAt"`
}
