package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, duration and outcome. Caller mistakes
// (invalid arguments, missing trips, denied access) log at WARN; anything
// else that fails logs at ERROR. Install it before RequireAuth so rejected
// tokens are logged too.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			ctx, caller := withCallerSlot(ctx)
			resp, err := next(ctx, req)

			userID := GetUserID(ctx)
			if userID == "" {
				userID = *caller
			}
			duration := time.Since(start).Milliseconds()
			if err == nil {
				slog.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs := []any{
				"procedure", procedure,
				"code", code.String(),
				"error", err,
				"user_id", userID,
				"duration_ms", duration,
			}
			if isClientError(code) {
				slog.Warn("RPC error", attrs...)
			} else {
				slog.Error("RPC error", attrs...)
			}
			return resp, err
		}
	}
}

func isClientError(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeFailedPrecondition, connect.CodePermissionDenied, connect.CodeUnauthenticated,
		connect.CodeCanceled:
		return true
	}
	return false
}
