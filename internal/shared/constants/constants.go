package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyRoleCode  = "role_code"
	ContextKeySubject   = "subject"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableRoles           = "roles"
	TableRolePermissions = "role_permissions"
	TableCasbinRule      = "casbin_rule"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
