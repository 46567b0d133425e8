package ctxutil

import "context"

type traceDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

type operatorKey struct{}

// WithOperator records the authenticated admin subject on the context.
func WithOperator(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, operatorKey{}, subject)
}

func Operator(ctx context.Context) string {
	if s, ok := ctx.Value(operatorKey{}).(string); ok {
		return s
	}
	return ""
}
