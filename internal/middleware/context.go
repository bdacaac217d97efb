package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeyOperator  = "operator"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)
