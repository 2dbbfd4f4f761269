package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/kandauda/tea-estate/internal/config"
)

const reportRange = "Reports!A:I"

// Exporter appends monthly report rows to an off-device spreadsheet backup.
type Exporter interface {
	AppendReportRows(ctx context.Context, month string, rows [][]interface{}) error
}

// GoogleSheetExporter implements Exporter using the official Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Sheets-backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendReportRows appends one month's report rows, prefixing each with the
// month key so repeated exports stay distinguishable in the sheet.
func (e *GoogleSheetExporter) AppendReportRows(ctx context.Context, month string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to export for %s", month)
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, append([]interface{}{month}, row...))
	}

	payload := &sheetsapi.ValueRange{Values: values}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report rows for %s: %w", month, err)
	}

	e.logger.Debug("report rows appended to sheet", zap.String("month", month), zap.Int("rows", len(rows)))
	return nil
}
