package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bionic-mail/backend/internal/models"
)

// Builder composes RFC 5322 messages for relay submission.
type Builder struct {
	fromAddress string
	fromName    string
}

// NewBuilder creates a message builder with the configured sender identity.
func NewBuilder(fromAddress, fromName string) *Builder {
	return &Builder{fromAddress: fromAddress, fromName: fromName}
}

// From returns the envelope sender address.
func (b *Builder) From() string {
	return b.fromAddress
}

// Build composes the full message: headers, a plain or HTML body part, and
// one base64 part per attachment. Bcc recipients are applied at the envelope
// level only and never appear in a header.
func (b *Builder) Build(req *models.EmailRequest, messageID uuid.UUID) ([]byte, error) {
	var buf bytes.Buffer

	from := mail.Address{Name: b.fromName, Address: b.fromAddress}
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(req.To, ", "))
	if len(req.Cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(req.Cc, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", req.Subject))
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", messageID, b.domain())
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(req.Attachments) == 0 {
		fmt.Fprintf(&buf, "Content-Type: %s; charset=UTF-8\r\n", bodyContentType(req.IsHTML))
		buf.WriteString("\r\n")
		buf.WriteString(req.Body)
		buf.WriteString("\r\n")
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", bodyContentType(req.IsHTML)+"; charset=UTF-8")
	part, err := mw.CreatePart(bodyHeader)
	if err != nil {
		return nil, fmt.Errorf("create body part: %w", err)
	}
	if _, err := part.Write([]byte(req.Body)); err != nil {
		return nil, fmt.Errorf("write body part: %w", err)
	}

	for _, path := range req.Attachments {
		if err := attachFile(mw, path); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) domain() string {
	if at := strings.LastIndex(b.fromAddress, "@"); at >= 0 {
		return b.fromAddress[at+1:]
	}
	return "localhost"
}

func bodyContentType(isHTML bool) string {
	if isHTML {
		return "text/html"
	}
	return "text/plain"
}

// attachFile reads the file fully into memory and writes it as a
// base64-encoded part. Validation has already bounded the file size.
func attachFile(mw *multipart.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read attachment %s: %w", path, err)
	}

	filename := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Transfer-Encoding", "base64")
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := part.Write([]byte(encoded[:n])); err != nil {
			return fmt.Errorf("write attachment part: %w", err)
		}
		if _, err := part.Write([]byte("\r\n")); err != nil {
			return fmt.Errorf("write attachment part: %w", err)
		}
		encoded = encoded[n:]
	}
	return nil
}
