package auth

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/goliatone/go-errors"
)

// SMTPVerificationSender delivers verification messages over plain SMTP.
// There is deliberately no retry here; a failed dispatch surfaces as
// ErrDeliveryFailed and the caller decides what to do with it.
type SMTPVerificationSender struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger Logger
}

var _ VerificationSender = (*SMTPVerificationSender)(nil)

// NewSMTPVerificationSender configures a sender for the given smtp host:port.
func NewSMTPVerificationSender(addr, from string, auth smtp.Auth) *SMTPVerificationSender {
	return &SMTPVerificationSender{
		addr:   addr,
		from:   from,
		auth:   auth,
		logger: defLogger{},
	}
}

func (s *SMTPVerificationSender) WithLogger(l Logger) *SMTPVerificationSender {
	if l != nil {
		s.logger = l
	}
	return s
}

// SendVerification dispatches the confirm-your-email message.
func (s *SMTPVerificationSender) SendVerification(ctx context.Context, msg VerificationEmail) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "context cancelled before mail dispatch")
	}

	body := buildVerificationBody(s.from, msg)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, body); err != nil {
		s.logger.Error("verification mail dispatch failed to=%s error=%v", msg.To, err)
		return errors.Wrap(err, ErrDeliveryFailed.Category, ErrDeliveryFailed.Message).
			WithTextCode(ErrDeliveryFailed.TextCode)
	}

	return nil
}

func buildVerificationBody(from string, msg VerificationEmail) []byte {
	link := fmt.Sprintf("%s/user/verify-email?token=%s&email=%s", msg.Origin, msg.Token, msg.To)

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: Email Confirmation\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(fmt.Sprintf("<h4>Hello, %s</h4>", msg.Name))
	b.WriteString(fmt.Sprintf(`<p>Please confirm your email by clicking: <a href="%s">Verify Email</a></p>`, link))

	return []byte(b.String())
}

// NoopVerificationSender swallows messages; used in tests and local setups
// that read the token straight from the store.
type NoopVerificationSender struct{}

// SendVerification implements VerificationSender.
func (NoopVerificationSender) SendVerification(context.Context, VerificationEmail) error {
	return nil
}
