package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/templui/medtrack/internal/model"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	logOnly   bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, logOnly bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !logOnly {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		logOnly:   logOnly,
		appURL:    appURL,
		appName:   appName,
	}
}

// SendReportReady tells the user a new report can be viewed.
func (s *EmailService) SendReportReady(ctx context.Context, to string, report *model.Report) error {
	if to == "" {
		return nil
	}

	reportURL := fmt.Sprintf("%s/reports/%s", s.appURL, report.ID)
	subject, body := reportReadyEmailTemplate(report.Title, report.StartDate, report.EndDate, reportURL, s.appName)

	if s.logOnly {
		slog.Info("email sent (log only)", "type", "report_ready", "to", to, "subject", subject, "url", reportURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "report_ready", "to", to, "report_id", report.ID)
	}
	return err
}
