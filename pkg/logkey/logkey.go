package logkey

// Shared keys for structured log attributes so log lines stay greppable
// across packages.
const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"

	ItemNumber = "ItemNumber"
	OrderID    = "OrderID"
	UserID     = "UserID"
	Email      = "Email"
)
