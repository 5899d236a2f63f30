// Package auditutil records allow/deny decisions in the audit log.
package auditutil

import (
	"context"
	"log/slog"

	"synclist-hub/internal/domain"
)

// LogAllowed records a successful, state-changing action.
func LogAllowed(ctx context.Context, audit domain.AuditRepository, logger *slog.Logger, principal, action, detail string) {
	logDecision(ctx, audit, logger, principal, action, domain.AuditAllowed, detail)
}

// LogDenied records a refused action. It only writes the log line; denials
// never touch persistent state.
func LogDenied(ctx context.Context, logger *slog.Logger, principal, action, detail string) {
	if logger == nil {
		return
	}
	logger.InfoContext(ctx, "access denied",
		"principal", principal, "action", action, "status", domain.AuditDenied, "detail", detail)
}

func logDecision(ctx context.Context, audit domain.AuditRepository, logger *slog.Logger, principal, action, status, detail string) {
	if audit == nil {
		return
	}
	err := audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: principal,
		Action:        action,
		Status:        status,
		Detail:        detail,
	})
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "audit insert failed", "action", action, "error", err)
	}
}
