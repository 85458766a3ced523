package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"gopkg.in/gomail.v2"
)

const otpSubject = "Your OTP for University Portal Login"

// otpBodyTemplate is executed with otpParams.
const otpBodyTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2d5016;">University Portal - Login OTP</h2>
  <p>Your One-Time Password (OTP) for logging into the University Portal is:</p>
  <div style="background: #f5f5f5; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">{{.Code}}</div>
  <p>This OTP is valid for {{.ValidMinutes}} minutes.</p>
  <p style="color: #666; font-size: 14px;">If you didn't request this OTP, please ignore this email.</p>
</div>`

var otpTmpl = template.Must(template.New("otp").Parse(otpBodyTemplate))

type otpParams struct {
	Code         string
	ValidMinutes int
}

// SMTPMailer sends codes through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string

	validMinutes int
}

// NewSMTP builds an SMTP mailer. port is the decimal port number; a bad
// value is rejected here rather than at first send.
func NewSMTP(host, port, username, password, from string) (*SMTPMailer, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid smtp port %q: %w", port, err)
	}

	return &SMTPMailer{
		dialer:       gomail.NewDialer(host, p, username, password),
		from:         from,
		validMinutes: 10,
	}, nil
}

func (m *SMTPMailer) SendOTP(_ context.Context, email, code string) error {
	body, err := renderOTPBody(code, m.validMinutes)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", otpSubject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: failed to send otp: %w", err)
	}
	return nil
}

func renderOTPBody(code string, validMinutes int) (string, error) {
	var buf bytes.Buffer
	err := otpTmpl.Execute(&buf, otpParams{
		Code:         code,
		ValidMinutes: validMinutes,
	})
	if err != nil {
		return "", fmt.Errorf("mailer: failed to render otp body: %w", err)
	}
	return buf.String(), nil
}
