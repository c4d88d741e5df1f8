package assistant

// Status is the outcome class of an operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusNoData  Status = "no_data"
	StatusWarning Status = "warning"
)

// Codes for failures that do not come from a typed core error.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeFetch           = "fetch_failed"
	CodeStore           = "store_failed"
	CodeOverloaded      = "overloaded"
	CodeNoRecords       = "no_records"
	CodeNoIncome        = "no_income"
	CodeInsight         = "insight_failed"
	CodeGoal            = "goal_failed"
	CodeImport          = "import_failed"
	CodeUnexpected      = "unexpected"
)

// Result is the tagged outcome of an operation. Message is the exact text
// shown to the user.
type Result struct {
	Status  Status
	Code    string
	Message string
}

// String returns the user-facing text.
func (r Result) String() string { return r.Message }

// OK reports a successful operation.
func (r Result) OK() bool { return r.Status == StatusSuccess }

func success(msg string) Result { return Result{Status: StatusSuccess, Message: msg} }

func failure(code, msg string) Result {
	return Result{Status: StatusFailure, Code: code, Message: msg}
}

func noData(code, msg string) Result {
	return Result{Status: StatusNoData, Code: code, Message: msg}
}

func warning(code, msg string) Result {
	return Result{Status: StatusWarning, Code: code, Message: msg}
}
