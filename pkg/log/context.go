package log

import "context"

// WithFields returns a copy of ctx carrying the given fields in addition to
// any already attached.
func WithFields(ctx context.Context, fields ...Field) context.Context {
	existing := FieldsFromContext(ctx)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// FieldsFromContext returns the fields attached with WithFields.
func FieldsFromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]Field)
	return fields
}
