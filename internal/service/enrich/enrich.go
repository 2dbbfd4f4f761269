// Package enrich turns raw harvest entries plus the monthly price book into
// processed records with resolved price, income and profit. Everything here
// is pure: the surrounding system reruns it on every snapshot push, so the
// same inputs must always produce the same outputs.
package enrich

import (
	"fmt"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// InvalidDateError reports a record whose date field is not a parseable
// calendar date. The record is excluded from results; the batch continues.
type InvalidDateError struct {
	RecordID string
	Value    string
	Err      error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("record %s has invalid date %q", e.RecordID, e.Value)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// Resolve looks up the effective unit price for a record. A missing factory
// reference, a month without a price table, a factory without an entry, and
// a stored price of zero or less all read as unpriced. Zero is not a valid
// buy-back price.
func Resolve(rec models.HarvestRecord, book models.PriceBook) (float64, bool) {
	if rec.FactoryID == "" || len(rec.Date) < 7 {
		return 0, false
	}
	price := book.Price(rec.Date[:7], rec.FactoryID)
	if price <= 0 {
		return 0, false
	}
	return price, true
}

// Enrich derives the read-only projection of one record against the current
// price book. The only failure mode is an unparseable date; a missing price
// is a normal state, not an error.
func Enrich(rec models.HarvestRecord, book models.PriceBook) (models.ProcessedRecord, error) {
	monthID, err := models.MonthID(rec.Date)
	if err != nil {
		return models.ProcessedRecord{}, &InvalidDateError{RecordID: rec.ID, Value: rec.Date, Err: err}
	}

	price, hasPrice := Resolve(rec, book)
	expenses := rec.LaborCost + rec.TransportCost + rec.OtherCost
	income := rec.HarvestAmount * price

	return models.ProcessedRecord{
		HarvestRecord: rec,
		MonthID:       monthID,
		UnitPrice:     price,
		HasPrice:      hasPrice,
		Expenses:      expenses,
		Income:        income,
		Profit:        income - expenses,
	}, nil
}

// EnrichAll processes a full record snapshot. Records with invalid dates
// are left out of the result and returned as diagnostics so the caller can
// log or surface them; they never take down the whole batch.
func EnrichAll(records []models.HarvestRecord, book models.PriceBook) ([]models.ProcessedRecord, []error) {
	processed := make([]models.ProcessedRecord, 0, len(records))
	var diags []error

	for _, rec := range records {
		p, err := Enrich(rec, book)
		if err != nil {
			diags = append(diags, err)
			continue
		}
		processed = append(processed, p)
	}

	return processed, diags
}
