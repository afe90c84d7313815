package logging

import (
	"context"
	"log/slog"
)

// redactHandler applies a Redactor to every string attribute before handing
// the record to the next handler. It lets components that only know about
// *slog.Logger benefit from redaction.
type redactHandler struct {
	next     slog.Handler
	redactor *Redactor
}

func newRedactHandler(next slog.Handler, r *Redactor) slog.Handler {
	if r == nil {
		return next
	}
	return &redactHandler{next: next, redactor: r}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &redactHandler{next: h.next.WithAttrs(redacted), redactor: h.redactor}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}

func (h *redactHandler) redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.Any(a.Key, maskValue(v.String()))
		}
		return slog.String(a.Key, h.redactor.RedactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, g := range group {
			redacted[i] = h.redactAttr(g)
		}
		return slog.Group(a.Key, redacted...)
	default:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, "***")
		}
		return slog.Attr{Key: a.Key, Value: v}
	}
}
