// Package mailer defines the outbound-notification collaborator.
//
// Delivery is external to this system: the interface exists so the
// collaboration service can announce invitations without knowing how
// (or whether) they get delivered. The bundled implementation just
// logs — real SMTP/SES delivery would be another implementation of
// the same interface.
package mailer

import (
	"context"
	"log/slog"
)

// Mailer sends notifications to users. Implementations must be safe for
// concurrent use.
//
// Callers treat every method as BEST-EFFORT: a returned error is logged
// by the caller and never fails the operation that triggered the
// notification.
type Mailer interface {
	// SendInvitation notifies `to` that inviterName invited them to
	// projectTitle with the given role.
	SendInvitation(ctx context.Context, to, inviterName, projectTitle, role string) error
}

// LogMailer is the no-op delivery stub: it logs what WOULD have been
// sent and always succeeds.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ Mailer = (*LogMailer)(nil)

func (m *LogMailer) SendInvitation(_ context.Context, to, inviterName, projectTitle, role string) error {
	m.logger.Info("invitation notification (log stub)",
		slog.String("to", to),
		slog.String("inviter", inviterName),
		slog.String("project", projectTitle),
		slog.String("role", role),
	)
	return nil
}
