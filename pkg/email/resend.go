package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

const paymentLinkTemplate = `
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>Your payment link is ready</h2>
    <p>Hi,</p>
    <p>Use the link below to pay for <strong>{{.PlanName}}</strong>:</p>
    <p><a href="{{.LinkURL}}">{{.LinkURL}}</a></p>
    <p>The link stays valid until the payment is completed.</p>
    <p style="color: #888; font-size: 12px;">&copy; {{.Year}} {{.FromName}}</p>
  </body>
</html>`

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, from, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

// SendPaymentLink emails a freshly minted payment link to a customer.
func (s *EmailService) SendPaymentLink(toEmail, planName, linkURL string) error {
	html, err := renderTemplate(paymentLinkTemplate, map[string]interface{}{
		"PlanName": planName,
		"LinkURL":  linkURL,
		"Year":     time.Now().Year(),
		"FromName": s.fromName,
	})
	if err != nil {
		return err
	}

	_, err = s.client.Emails.Send(&resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.from),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Payment link for %s", planName),
		Html:    html,
	})
	if err != nil {
		s.logger.Error("payment link email send failed",
			zap.String("to", toEmail),
			zap.Error(err))
		return err
	}

	s.logger.Info("payment link email sent", zap.String("to", toEmail))
	return nil
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
