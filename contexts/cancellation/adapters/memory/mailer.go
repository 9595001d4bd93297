package memory

import (
	"context"
	"log/slog"
	"sync"

	application "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/application"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

// Mailer records outbound messages instead of delivering them. Used for local
// runtime and tests.
type Mailer struct {
	mu     sync.Mutex
	sent   []ports.Message
	logger *slog.Logger
}

func NewMailer(logger *slog.Logger) *Mailer {
	return &Mailer{logger: application.ResolveLogger(logger)}
}

func (m *Mailer) Send(_ context.Context, msg ports.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	m.logger.Info("mail captured",
		"event", "cancellation_mail_captured",
		"module", "cancellation",
		"layer", "adapter",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}

// Sent returns a copy of all captured messages in send order.
func (m *Mailer) Sent() []ports.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.Message, len(m.sent))
	copy(out, m.sent)
	return out
}
