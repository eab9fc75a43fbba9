// Package notify delivers best-effort admin notifications over SMTP.
// Sends are queued and delivered from a background loop: a slow or dead
// mail server must never delay or roll back the job mutation that
// triggered the notification.
package notify

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dialer abstracts gomail's SMTP dialer so tests can capture messages.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type mail struct {
	to      string
	subject string
	body    string
}

type Mailer struct {
	dialer    Dialer
	from      string
	queue     chan mail
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewMailer(cfg *Config, logger *zap.Logger) *Mailer {
	return newMailer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, logger)
}

func newMailer(dialer Dialer, from string, logger *zap.Logger) *Mailer {
	m := &Mailer{
		dialer:    dialer,
		from:      from,
		queue:     make(chan mail, 100),
		logger:    logger.Named("mailer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go m.sendLoop()
	return m
}

// Send enqueues a message without blocking. A full queue drops the
// message with a warning; notification loss is acceptable, request
// latency spikes are not.
func (m *Mailer) Send(to, subject, body string) {
	select {
	case m.queue <- mail{to: to, subject: subject, body: body}:
	default:
		m.logger.Warn("mail queue full, dropping notification",
			zap.String("to", to),
			zap.String("subject", subject),
		)
	}
}

func (m *Mailer) sendLoop() {
	defer close(m.done)
	for {
		select {
		case msg := <-m.queue:
			m.deliver(msg)
		case <-m.closeChan:
			// Drain what is already queued before exiting.
			for {
				select {
				case msg := <-m.queue:
					m.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (m *Mailer) deliver(msg mail) {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.to)
	gm.SetHeader("Subject", msg.subject)
	gm.SetBody("text/plain", msg.body)

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	err := backoff.Retry(func() error {
		return m.dialer.DialAndSend(gm)
	}, policy)
	if err != nil {
		m.logger.Error("failed to deliver notification",
			zap.Error(err),
			zap.String("to", msg.to),
			zap.String("subject", msg.subject),
		)
	}
}

// Close stops the send loop after draining queued messages.
func (m *Mailer) Close() {
	close(m.closeChan)
	select {
	case <-m.done:
	case <-time.After(5 * time.Second):
		m.logger.Warn("mailer close timed out with messages in flight")
	}
}
