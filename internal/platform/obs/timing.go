package obs

import (
	"context"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores a request identifier for downstream op timing logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request identifier stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs an operation's duration (and error, if any) when the returned
// function runs. Usage:
//
//	defer obs.Time(ctx, "planner.OptimizeLine")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			L().Errorw("operation failed",
				"req_id", reqID,
				"op", name,
				"dur_ms", dur.Milliseconds(),
				"err", *errp,
			)
			return
		}

		L().Infow("operation completed",
			"req_id", reqID,
			"op", name,
			"dur_ms", dur.Milliseconds(),
		)
	}
}
