package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldSuccess   = "success"
	FieldOwner     = "owner"
	FieldPeriod    = "period"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldTxnID     = "transaction_id"
	FieldKey       = "key"
	FieldBackend   = "backend"
	FieldCount     = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentIdentity = "identity"
	ComponentSalary   = "salary"
	ComponentLedger   = "ledger"
	ComponentReport   = "report"
	ComponentService  = "service"
	ComponentStore    = "store"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpAppend   = "append"
	OpRemove   = "remove"
	OpGet      = "get"
	OpSet      = "set"
	OpDelete   = "delete"
	OpList     = "list"
	OpQuery    = "query"
	OpMigrate  = "migrate"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOwner adds the canonical owner email
func (f LogFields) WithOwner(email string) LogFields {
	f[FieldOwner] = email
	return f
}

// WithPeriod adds the "YYYY-MM" period key
func (f LogFields) WithPeriod(period string) LogFields {
	f[FieldPeriod] = period
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
