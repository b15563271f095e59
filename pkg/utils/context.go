package utils

import (
	"context"
)

type contextKey string

const (
	UsernameKey  contextKey = "username"
	RequestIDKey contextKey = "request_id"
)

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

func SetUsernameContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func SetRequestIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
