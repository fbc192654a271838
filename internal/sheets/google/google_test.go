package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financetracker/internal/core"
)

type recordedCall struct {
	method string
	path   string
	query  string
	body   string
}

func newTestExporter(t *testing.T, status int) (*Exporter, *[]recordedCall) {
	return newTestExporterForSheet(t, status, "")
}

func newTestExporterForSheet(t *testing.T, status int, sheet string) (*Exporter, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if strings.HasSuffix(r.URL.Path, ":clear") {
			_, _ = w.Write([]byte(`{"clearedRange":"'Transactions'!A1:Z100"}`))
			return
		}
		_, _ = w.Write([]byte(`{"updatedRange":"'Transactions'!A1:F8","updatedRows":8}`))
	}))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithoutAuthentication(),
		goption.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewWithService(svc, Config{SpreadsheetID: "sheet-1", SheetName: sheet}, nil), &calls
}

func TestExporter_Export(t *testing.T) {
	e, calls := newTestExporter(t, http.StatusOK)

	txs := []core.Transaction{
		{ID: "1", Type: core.Expense, Category: "Lazer", Amount: 50, Date: "2026-01-02"},
	}
	res, err := e.Export(context.Background(), core.DefaultCatalog(), txs)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Ref != "'Transactions'!A1:F8" || res.Rows != 6 {
		t.Fatalf("result = %+v", res)
	}

	if len(*calls) != 2 {
		t.Fatalf("expected clear and update, got %d calls", len(*calls))
	}
	clearCall, update := (*calls)[0], (*calls)[1]
	if clearCall.method != http.MethodPost || !strings.HasSuffix(clearCall.path, ":clear") {
		t.Errorf("first call = %s %s", clearCall.method, clearCall.path)
	}
	if update.method != http.MethodPut || !strings.Contains(update.query, "valueInputOption=RAW") {
		t.Errorf("second call = %s %s?%s", update.method, update.path, update.query)
	}

	var vr struct {
		Values [][]any `json:"values"`
	}
	if err := json.Unmarshal([]byte(update.body), &vr); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if vr.Values[0][0] != "Data" || vr.Values[1][2] != "Lazer" {
		t.Errorf("values = %v", vr.Values)
	}
}

func TestExporter_ExportError(t *testing.T) {
	e, _ := newTestExporter(t, http.StatusForbidden)
	if _, err := e.Export(context.Background(), core.DefaultCatalog(), nil); err == nil || !strings.Contains(err.Error(), "clear sheet") {
		t.Fatalf("expected clear error, got %v", err)
	}
}

func TestExporter_NotInitialized(t *testing.T) {
	e := &Exporter{}
	if _, err := e.Export(context.Background(), core.DefaultCatalog(), nil); err == nil {
		t.Fatal("expected error with nil service")
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}, nil); err == nil || err.Error() != "missing spreadsheet id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "x", CredentialsFile: "/non/existent.json"}, nil)
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSheetRange(t *testing.T) {
	tests := []struct {
		sheet, cells, want string
	}{
		{"Transactions", "A1", "'Transactions'!A1"},
		{"Joe's", "A:Z", "'Joe''s'!A:Z"},
		{"''", "A1", "!A1"},
	}
	for _, tt := range tests {
		if got := sheetRange(tt.sheet, tt.cells); got != tt.want {
			t.Errorf("sheetRange(%q, %q) = %q, want %q", tt.sheet, tt.cells, got, tt.want)
		}
	}
}

func TestExporter_ExportQuotedSheetName(t *testing.T) {
	e, calls := newTestExporterForSheet(t, http.StatusOK, "Joe's")
	if _, err := e.Export(context.Background(), core.DefaultCatalog(), nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	for _, c := range *calls {
		if !strings.Contains(c.path, "'Joe''s'!") {
			t.Errorf("range not escaped in %s %s", c.method, c.path)
		}
	}
}
