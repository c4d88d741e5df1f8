package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldUser       = "user"
	FieldKind       = "kind"
	FieldEntryID    = "entry_id"
	FieldMonth      = "month"
	FieldYear       = "year"
	FieldTag        = "tag"
	FieldScore      = "score"
	FieldStatus     = "status"
	FieldCode       = "code"
	FieldError      = "error"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldBackend    = "backend"
	FieldCount      = "count"
	FieldRow        = "row"
)

// Components
const (
	ComponentApp       = "app"
	ComponentAssistant = "assistant"
	ComponentInsight   = "insight"
	ComponentStorage   = "storage"
	ComponentHTTP      = "http"
	ComponentImport    = "import"
	ComponentBackend   = "backend"
)

// Operations
const (
	OpAddTransaction = "add_transaction"
	OpInsight        = "financial_insight"
	OpBudget         = "optimize_budget"
	OpGoal           = "track_goal"
	OpImport         = "import"
	OpCreate         = "create"
	OpList           = "list"
	OpMigrate        = "migrate"
)

// Fields is a builder for structured log attributes.
type Fields map[string]any

// NewFields creates an empty Fields.
func NewFields() Fields {
	return make(Fields)
}

// WithOperation adds the operation name.
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithUser adds the user id.
func (f Fields) WithUser(user string) Fields {
	f[FieldUser] = user
	return f
}

// WithError adds err when it is non-nil.
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// With adds an arbitrary key.
func (f Fields) With(key string, value any) Fields {
	f[key] = value
	return f
}

// Args flattens the fields for slog's variadic API.
func (f Fields) Args() []any {
	args := make([]any, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}
