// Package actorctx carries the authenticated user and the request id on a
// request context so code below the HTTP layer can read them without
// importing gin.
package actorctx

import "context"

type (
	userKey    struct{}
	requestKey struct{}
)

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func UserIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(userKey{}).(int64)

	return v, ok && v > 0
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestKey{}, id)
}

func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestKey{}).(string)

	return v, ok && v != ""
}
