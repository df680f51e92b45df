package logkey

// keys used across slog calls so log lines stay queryable
const (
	TraceID       = "TraceID"
	ERROR         = "ERROR"
	UserID        = "UserID"
	OrderID       = "OrderID"
	ProductID     = "ProductID"
	PaymentIntent = "PaymentIntent"
	Total         = "Total"
	Quantity      = "Quantity"
	Stars         = "Stars"
	CategoryID    = "CategoryID"
	EntityID      = "ID"
)
