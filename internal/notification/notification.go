package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delordemm1/go-accounts-api/internal/notification/templates"
)

// --- Constants for Type Safety ---
type Channel string
type Priority string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Content holds the specific message data for each channel.
// A notification can contain content for multiple channels simultaneously.
type Content struct {
	EmailSubject  string
	EmailHTMLBody string
	SMSText       string
}

// Notification is the universal object used to send any notification.
type Notification struct {
	Recipient string // an email address or phone number depending on channel
	Channels  []Channel
	Priority  Priority
	Content   Content
}

// --- Internal Sender Interfaces ---
// These are not exposed outside the package.
type emailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
type smsSender interface {
	Send(ctx context.Context, to, message string) error
}

// Config holds explicit toggles for the notification service. EmailEnabled
// replaces the original process-wide "is email sending enabled" flag: callers
// construct the service with it instead of flipping global state.
type Config struct {
	EmailEnabled bool
}

// Service is the main interface for the notification system.
type Service interface {
	Send(ctx context.Context, n Notification) error
	Render(ctx context.Context, id string, data any) (templates.Rendered, error)
}

// service is the concrete implementation.
type service struct {
	log         *slog.Logger
	cfg         Config
	renderer    templates.Renderer
	emailSender emailSender
	smsSender   smsSender
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, cfg Config, renderer templates.Renderer, emailSender emailSender, smsSender smsSender) Service {
	return &service{
		log:         log,
		cfg:         cfg,
		renderer:    renderer,
		emailSender: emailSender,
		smsSender:   smsSender,
	}
}

// Render materializes a scenario template into per-channel content.
func (s *service) Render(ctx context.Context, id string, data any) (templates.Rendered, error) {
	return s.renderer.RenderAny(ctx, id, data)
}

// Send acts as a dispatcher, routing the notification to the correct channel sender.
// It returns immediately; per-channel sends run in their own goroutines and
// failures are logged, never propagated back to the state transition that
// triggered them.
func (s *service) Send(ctx context.Context, n Notification) error {
	for _, channel := range n.Channels {
		go func(ch Channel) {
			var err error
			switch ch {
			case ChannelEmail:
				if !s.cfg.EmailEnabled {
					s.log.Info("email sending disabled, dropping notification", "recipient", n.Recipient)
					return
				}
				s.log.Info("dispatching email notification", "recipient", n.Recipient)
				err = s.emailSender.Send(ctx, n.Recipient, n.Content.EmailSubject, n.Content.EmailHTMLBody)
			case ChannelSMS:
				s.log.Info("dispatching sms notification", "recipient", n.Recipient)
				err = s.smsSender.Send(ctx, n.Recipient, n.Content.SMSText)
			default:
				s.log.Warn("unsupported notification channel", "channel", ch)
			}

			if err != nil {
				// We can't return an error here, so we must log it for monitoring.
				s.log.Error("failed to send notification", "channel", ch, "recipient", n.Recipient, "error", err)
			}
		}(channel)
	}
	return nil // Return immediately
}

// SendTemplate renders a typed scenario template and dispatches it on the given channels.
func SendTemplate[T any](ctx context.Context, svc Service, h templates.Handle[T], recipient string, channels []Channel, priority Priority, data T) error {
	rendered, err := svc.Render(ctx, h.ID(), data)
	if err != nil {
		return fmt.Errorf("render template %q: %w", h.ID(), err)
	}

	return svc.Send(ctx, Notification{
		Recipient: recipient,
		Channels:  channels,
		Priority:  priority,
		Content: Content{
			EmailSubject:  rendered.Subject,
			EmailHTMLBody: rendered.EmailHTML,
			SMSText:       rendered.SMSText,
		},
	})
}
