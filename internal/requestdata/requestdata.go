package requestdata

import (
	"context"
)

type requestDataKeyType struct{}

var requestDataKey requestDataKeyType

// RequestData carries the authenticated caller's identity through the
// request context. UserID is the opaque subject from the bearer token.
type RequestData struct {
	TokenString string
	UserID      string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the caller's user id or "" when the context carries no
// request data.
func UserID(ctx context.Context) string {
	rd := GetRequestData(ctx)
	if rd == nil {
		return ""
	}
	return rd.UserID
}
