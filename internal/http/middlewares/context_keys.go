package middlewares

// gin context keys
const (
	CtxRequestID = "request_id"
	ctxUserIDKey = "auth.userID"
	ctxAdminKey  = "auth.isAdmin"
)
