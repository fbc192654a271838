// Package google exports transactions to a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financetracker/internal/core"
	"financetracker/internal/log"
	ports "financetracker/internal/sheets"
)

var _ ports.Exporter = (*Exporter)(nil)

const exportTimeout = 60 * time.Second

// Config selects the target spreadsheet and the credentials to reach it.
type Config struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsFile is a service account key. When empty the
	// GOOGLE_SERVICE_ACCOUNT_JSON variable or application default
	// credentials are used.
	CredentialsFile string
}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// New creates an Exporter authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	opts, err := credentialOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg, logger), nil
}

// NewWithService wraps an existing service, e.g. one pointed at a test server.
func NewWithService(svc *gsheet.Service, cfg Config, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Transactions"
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheet,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

func credentialOptions(cfg Config) ([]goption.ClientOption, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return []goption.ClientOption{goption.WithCredentialsJSON(data)}, nil
	case inline != "":
		return []goption.ClientOption{goption.WithCredentialsJSON([]byte(inline))}, nil
	default:
		// application default credentials
		return nil, nil
	}
}

// Export clears the tab and writes the current snapshot from A1.
func (e *Exporter) Export(ctx context.Context, catalog core.Catalog, txs []core.Transaction) (ports.ExportResult, error) {
	if e.svc == nil {
		return ports.ExportResult{}, errors.New("sheets service not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	clearRange := sheetRange(e.sheetName, "A:Z")
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return ports.ExportResult{}, fmt.Errorf("clear sheet: %w", err)
	}

	rows := ports.BuildRows(catalog, txs)
	vr := &gsheet.ValueRange{Values: rows}
	writeRange := sheetRange(e.sheetName, "A1")
	resp, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return ports.ExportResult{}, fmt.Errorf("write sheet: %w", err)
	}

	ref := resp.UpdatedRange
	if ref == "" {
		ref = writeRange
	}
	e.logger.InfoContext(ctx, "Transactions exported",
		log.FieldOperation, log.OpExport,
		log.FieldSheetsRef, ref,
		log.FieldCount, len(txs))
	return ports.ExportResult{Ref: ref, Rows: len(rows)}, nil
}

// sheetRange builds an A1 range on the named tab. Quotes inside the name are
// doubled as A1 notation requires.
func sheetRange(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}
