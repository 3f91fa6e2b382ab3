package domain

import (
	"context"

	"coop_crm/internal/model"
)

// AuditLog appends action records, best-effort. Failures are swallowed.
type AuditLog interface {
	Record(ctx context.Context, actor, action, details string)
}

// Refiner turns a raw consultation note into a formal rewrite, a one-line
// summary and up to three tags. nil means the AI integration is disabled.
type Refiner interface {
	Refine(ctx context.Context, raw string) (model.Refinement, error)
}

// Notifier pushes a follow-up request to the destination department.
// Fire-and-forget; nil means notifications are disabled.
type Notifier interface {
	TaskRequested(ctx context.Context, department, customerName, request, writer string)
}
