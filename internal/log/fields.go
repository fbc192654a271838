package log

import "financetracker/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldKey         = "key"
	FieldBackend     = "backend"
	FieldBytes       = "bytes"
	FieldCount       = "count"
	FieldChanged     = "changed"
	FieldTxID        = "tx_id"
	FieldTxType      = "tx_type"
	FieldCategory    = "category"
	FieldNewCategory = "new_category"
	FieldAmount      = "amount"
	FieldCatalogMode = "catalog_mode"
	FieldMessageID   = "message_id"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentTracker = "tracker"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentMigrate = "migrate"
)

// Operations defines standard operation names
const (
	OpLoad       = "load"
	OpRewrite    = "rewrite"
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpRename     = "rename"
	OpRecolor    = "recolor"
	OpRevalidate = "revalidate"
	OpPublish    = "publish"
	OpConsume    = "consume"
	OpExport     = "export"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithKey adds the slot key.
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// WithTransaction adds the identifying fields of a transaction.
func (f LogFields) WithTransaction(t core.Transaction) LogFields {
	f[FieldTxID] = t.ID
	f[FieldTxType] = t.Type.String()
	f[FieldCategory] = t.Category
	f[FieldAmount] = t.Amount
	return f
}

// WithCategory adds the bucket and name of a category.
func (f LogFields) WithCategory(t core.TransactionType, name string) LogFields {
	f[FieldTxType] = t.String()
	f[FieldCategory] = name
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
