// Package mail turns a validated send request into a transmitted message and
// a durable history record.
package mail

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bionic-mail/backend/internal/history"
	"github.com/bionic-mail/backend/internal/mailer"
	"github.com/bionic-mail/backend/internal/models"
	"github.com/bionic-mail/backend/pkg/logging"
)

// Service composes, transmits, and records outgoing emails.
type Service struct {
	builder         *mailer.Builder
	client          *mailer.Client
	store           history.Store
	logEmailContent bool
}

// NewService creates a mail service.
func NewService(builder *mailer.Builder, client *mailer.Client, store history.Store, logEmailContent bool) *Service {
	return &Service{
		builder:         builder,
		client:          client,
		store:           store,
		logEmailContent: logEmailContent,
	}
}

// Send transmits the request through the relay and appends exactly one
// history record regardless of outcome. The record's status transition from
// pending to its terminal value happens before the single append, so the
// store only ever sees terminal records. A transport failure is not an
// error: the failed record is returned so the caller can distinguish it from
// an invalid request. The returned error covers store failures only.
func (s *Service) Send(ctx context.Context, req *models.EmailRequest) (*models.EmailRecord, error) {
	logger := logging.FromContext(ctx)
	messageID := uuid.New()
	record := models.NewEmailRecord(messageID, req)

	fields := []zap.Field{zap.String("message_id", messageID.String())}
	if s.logEmailContent {
		fields = append(fields,
			zap.Strings("to", req.To),
			zap.String("subject", req.Subject),
		)
	} else {
		fields = append(fields, zap.Int("recipients", len(req.To)+len(req.Cc)+len(req.Bcc)))
	}

	msg, err := s.builder.Build(req, messageID)
	if err != nil {
		// Composition failures (e.g. an attachment vanished between
		// validation and send) are recorded like transport failures so
		// every attempt stays auditable.
		record.MarkFailed(err.Error())
		logger.Error("message composition failed", append(fields, zap.Error(err))...)
		return record, s.store.Append(ctx, record)
	}

	envelope := envelopeRecipients(req)
	if err := s.client.Send(ctx, s.builder.From(), envelope, msg); err != nil {
		record.MarkFailed(err.Error())
		logger.Error("relay transmission failed", append(fields, zap.Error(err))...)
		return record, s.store.Append(ctx, record)
	}

	record.MarkSent(time.Now().UTC())
	logger.Info("email sent", fields...)
	return record, s.store.Append(ctx, record)
}

// envelopeRecipients joins to, cc, and bcc: bcc recipients receive the
// message through the envelope without appearing in any header.
func envelopeRecipients(req *models.EmailRequest) []string {
	out := make([]string, 0, len(req.To)+len(req.Cc)+len(req.Bcc))
	out = append(out, req.To...)
	out = append(out, req.Cc...)
	out = append(out, req.Bcc...)
	return out
}
