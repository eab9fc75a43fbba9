package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

// captureDialer records delivered messages instead of dialing SMTP.
type captureDialer struct {
	mu       sync.Mutex
	messages []*gomail.Message
	fail     bool
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return errors.New("smtp unreachable")
	}
	d.messages = append(d.messages, m...)
	return nil
}

func (d *captureDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

func TestMailerSend(t *testing.T) {
	dialer := &captureDialer{}
	mailer := newMailer(dialer, "noreply@stafflink.example", zaptest.NewLogger(t))

	mailer.Send("admin@stafflink.example", "New edit request", "Job #1 has a pending edit request.")
	mailer.Close()

	require.Equal(t, 1, dialer.count())
	msg := dialer.messages[0]
	assert.Equal(t, []string{"admin@stafflink.example"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"New edit request"}, msg.GetHeader("Subject"))
}

func TestMailerDeliveryFailureIsLoggedNotFatal(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	dialer := &captureDialer{fail: true}
	mailer := newMailer(dialer, "noreply@stafflink.example", zap.New(core))

	mailer.Send("admin@stafflink.example", "subject", "body")

	// Retries back off; give the loop time to exhaust them.
	assert.Eventually(t, func() bool {
		return recorded.FilterMessage("failed to deliver notification").Len() == 1
	}, 10*time.Second, 50*time.Millisecond)

	mailer.Close()
}

func TestMailerQueueFullDrops(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	// Never start the loop so the queue stays full.
	mailer := &Mailer{
		dialer:    &captureDialer{},
		from:      "noreply@stafflink.example",
		queue:     make(chan mail, 1),
		logger:    zap.New(core),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}

	mailer.Send("a@example.com", "one", "body")
	mailer.Send("a@example.com", "two", "body") // dropped

	assert.Equal(t, 1, recorded.FilterMessage("mail queue full, dropping notification").Len())
}
