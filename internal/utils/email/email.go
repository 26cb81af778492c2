package email

import (
	"fmt"
	"math"
	"net/smtp"
	"strings"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Rhymond/go-money"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	return e.Send(addr, auth)
}

// SendRunwayAlert warns a founder that cash runway fell under the alert threshold
func (s *Sender) SendRunwayAlert(to string, user *models.User, snap *models.FinancialSnapshot) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Cash Runway Alert"

	e.Text = []byte(runwayAlertBody(user, snap, s.cfg.RunwayAlertMonths))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send runway alert to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func runwayAlertBody(user *models.User, snap *models.FinancialSnapshot, threshold float64) string {
	name := user.Username
	if user.CompanyName != "" {
		name = user.CompanyName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b,
		"Your cash runway is %.1f months, below your alert threshold of %.1f months.\n"+
			"Cash balance: %s\n"+
			"Monthly burn rate: %s\n"+
			"Monthly revenue: %s\n",
		float64(snap.RunwayMonths), threshold,
		gbp(snap.CashBalance.InexactFloat64()),
		gbp(snap.BurnRate.InexactFloat64()),
		gbp(snap.MonthlyRevenue.InexactFloat64()),
	)
	b.WriteString("\nReview the cash flow forecast on your dashboard to plan next steps.\n")
	b.WriteString("\nBest regards,\nCFO Dashboard")
	return b.String()
}

func gbp(amount float64) string {
	return money.New(int64(math.Round(amount*100)), money.GBP).Display()
}
