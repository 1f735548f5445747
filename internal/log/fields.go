package log

// Field names shared by every log site, so the same key always means the
// same thing across components.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldTransactionID = "transaction_id"
	FieldAccount       = "account"
	FieldAmountCents   = "amount_cents"
	FieldRowRef        = "row_ref"
)

// Component names tagged onto each process's logger.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
