package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/lovihub/lovi-backend/models"
)

// ReportMailer delivers a commission report copy to the business by email.
type ReportMailer interface {
	SendDealReport(business *models.Business, deal *models.Deal, report *models.BusinessReport) error
}

// SMTPConfig holds the SMTP settings for outbound mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPReportMailer sends report emails through an SMTP relay.
type SMTPReportMailer struct {
	config SMTPConfig
}

// NewSMTPReportMailer creates a mailer for the given SMTP settings.
func NewSMTPReportMailer(config SMTPConfig) *SMTPReportMailer {
	return &SMTPReportMailer{config: config}
}

// SendDealReport emails the commission breakdown for a completed deal.
func (m *SMTPReportMailer) SendDealReport(business *models.Business, deal *models.Deal, report *models.BusinessReport) error {
	if business.Email == "" {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", business.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Commission report: %s", deal.Title))

	body := fmt.Sprintf(`
		<h2>Deal completed: %s</h2>
		<p>Here is the commission breakdown for your deal.</p>
		<table border="1" cellpadding="6" cellspacing="0">
			<tr><td>Total bookings</td><td>%d</td></tr>
			<tr><td>Codes used</td><td>%d</td></tr>
			<tr><td>Codes confirmed</td><td>%d</td></tr>
			<tr><td>Revenue</td><td>%.2f</td></tr>
			<tr><td>Commission (%.0f%%)</td><td>%.2f</td></tr>
		</table>
		<p>Payment is due by <b>%s</b>.</p>
	`, deal.Title, report.TotalBookings, report.CodesUsed, report.CodesConfirmed,
		report.Revenue, report.CommissionRate*100, report.Commission,
		report.DueDate.Format("02.01.2006"))
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.config.Host, m.config.Port, m.config.Username, m.config.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send report email: %v", err)
	}
	return nil
}
