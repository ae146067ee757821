package services

import (
	"fmt"

	"stocktake-app/config"
	"stocktake-app/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// MailerService sends the completion summary when a session closes.
// Strictly best effort: failures are logged and never block the close.
type MailerService struct{}

func NewMailerService() *MailerService {
	return &MailerService{}
}

func (m *MailerService) SendSessionCompleted(session *models.CountSession) {
	if !config.MailOnComplete || config.SMTPSender == "" || len(config.ReportMailTo) == 0 {
		return
	}

	subject := fmt.Sprintf("Stock take session %s completed", session.Code)
	closeKind := "normal close"
	if session.ForcedClose {
		closeKind = "forced close (administrative override)"
	}

	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Stock take session completed</h3>
				<p>Session: <strong>%s</strong> (%s)</p>
				<p>Warehouse: <strong>%s</strong></p>
				<p>Materials processed: <strong>%d of %d</strong></p>
				<p>Completion: %s</p>
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, session.Code, session.CampaignType, session.WhsCode,
		session.ProcessedCount, session.ScopeCount, closeKind)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.ReportMailTo...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		logrus.WithError(err).WithField("session", session.Code).
			Warn("failed to send session completion mail")
		return
	}

	logrus.WithField("session", session.Code).Info("session completion mail sent")
}
