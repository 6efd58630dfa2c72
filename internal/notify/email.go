package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

const queueSize = 64

var ErrNoRecipients = errors.New("no recipients configured")

// EmailConfig holds SMTP settings for the email notifier
type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
	// Types limits which notification types are mailed. Empty means alerts only.
	Types []model.NotificationType
}

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier mails raised notifications in the background. It implements
// store.EventSink; activity entries are ignored.
type EmailNotifier struct {
	logger *zap.Logger
	config EmailConfig
	send   SendFunc
	types  map[model.NotificationType]bool
	queue  chan model.Notification
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewEmailNotifier creates a new email notifier. send is smtp.SendMail when nil.
func NewEmailNotifier(config EmailConfig, send SendFunc, logger *zap.Logger) (*EmailNotifier, error) {
	if len(config.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if send == nil {
		send = smtp.SendMail
	}

	types := make(map[model.NotificationType]bool)
	for _, t := range config.Types {
		types[t] = true
	}
	if len(types) == 0 {
		types[model.NotificationAlert] = true
	}

	return &EmailNotifier{
		logger: logger.Named("email-notifier"),
		config: config,
		send:   send,
		types:  types,
		queue:  make(chan model.Notification, queueSize),
	}, nil
}

// Start delivers queued notifications in the background. The queue is
// closed when ctx is done; mail already queued is still sent.
func (n *EmailNotifier) Start(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for notification := range n.queue {
			if err := n.deliver(notification); err != nil {
				n.logger.Error("Failed to send notification email",
					zap.String("notification_id", notification.ID),
					zap.Error(err))
			}
		}
	}()

	go func() {
		<-ctx.Done()
		n.closeQueue()
	}()
}

// Stop closes the queue and waits until queued mail is sent
func (n *EmailNotifier) Stop() {
	n.closeQueue()
	n.wg.Wait()
}

func (n *EmailNotifier) closeQueue() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
}

// ActivityLogged implements store.EventSink
func (n *EmailNotifier) ActivityLogged(entry model.ActivityLog) {}

// NotificationRaised implements store.EventSink. The mail is queued; a full
// or closed queue drops it.
func (n *EmailNotifier) NotificationRaised(notification model.Notification) {
	if !n.types[notification.Type] {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- notification:
	default:
		n.logger.Warn("Email queue full, dropping notification",
			zap.String("notification_id", notification.ID))
	}
}

func (n *EmailNotifier) deliver(notification model.Notification) error {
	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	if err := n.send(addr, auth, n.config.From, n.config.Recipients, n.message(notification)); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}

	n.logger.Info("Notification emailed",
		zap.String("notification_id", notification.ID),
		zap.Int("recipients", len(n.config.Recipients)))
	return nil
}

func (n *EmailNotifier) message(notification model.Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.config.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", notification.Type, notification.Message)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(notification.Message)
	b.WriteString("\r\n")
	if notification.LinkTo != "" {
		fmt.Fprintf(&b, "\r\nOpen: %s\r\n", notification.LinkTo)
	}
	return []byte(b.String())
}
