// Package mailer submits composed messages to the external SMTP relay.
// The relay does all real delivery work, retry, and queuing; this client
// opens one connection per send and surfaces any failure immediately.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/bionic-mail/backend/config"
	"github.com/bionic-mail/backend/pkg/logging"
)

// Client talks plaintext SMTP to the configured relay. The relay is
// IP-authenticated: no AUTH and no TLS on the submission path.
type Client struct {
	addr       string
	host       string
	timeout    time.Duration
	logDetails bool
}

// NewClient creates a relay client from configuration.
func NewClient(cfg config.SMTPConfig, logDetails bool) *Client {
	return &Client{
		addr:       cfg.Addr(),
		host:       cfg.Host,
		timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		logDetails: logDetails,
	}
}

// Send performs one SMTP transaction: dial, MAIL FROM, one RCPT TO per
// envelope recipient, DATA, QUIT. No retries; a relay-level failure is
// returned to the caller as-is.
func (c *Client) Send(ctx context.Context, from string, recipients []string, msg []byte) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no envelope recipients")
	}

	client, conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	// Re-arm the deadline so it covers the full transaction.
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("DATA close: %w", err)
	}

	if c.logDetails {
		logging.FromContext(ctx).Debug("smtp transaction complete",
			zap.String("relay", c.addr),
			zap.Int("recipients", len(recipients)),
			zap.Int("message_bytes", len(msg)),
		)
	}
	return client.Quit()
}

// Check probes the relay with a dial-and-quit. Used by the health endpoint.
func (c *Client) Check(ctx context.Context) error {
	client, _, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

func (c *Client) dial(ctx context.Context) (*smtp.Client, net.Conn, error) {
	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to relay %s: %w", c.addr, err)
	}
	// The dialer timeout covers only the connect; the greeting read needs
	// its own deadline or a silent relay hangs the handshake.
	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("smtp handshake with %s: %w", c.addr, err)
	}
	return client, conn, nil
}
