package middlewares

const (
	CtxRequestID = "request_id"

	ctxUsernameKey = "auth.username"
	ctxUserIDKey   = "auth.userID"
	ctxRoleKey     = "auth.role"
)
