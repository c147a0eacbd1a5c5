package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/models"
)

// Mailer sends customer notifications. Sends are best-effort everywhere:
// callers log failures and move on, a lost email never fails an order.
type Mailer interface {
	SendVoucher(to string, v *models.Voucher) error
	SendOrderConfirmation(to string, o *models.Order) error
}

type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTP(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) SendVoucher(to string, v *models.Voucher) error {
	subject := "قسيمتك من Member X | Your Member X voucher"
	body := fmt.Sprintf(
		"رمز القسيمة / Voucher code: %s\r\nValid until: %s\r\nUse this code when redeeming.\r\n",
		v.Code,
		v.ValidUntil.Format("2006-01-02"),
	)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) SendOrderConfirmation(to string, o *models.Order) error {
	subject := "تأكيد طلبك من Member X | Your Member X order"
	body := fmt.Sprintf(
		"Order %s confirmed.\r\nTotal: %.2f %s\r\n",
		o.OrderNumber,
		o.TotalAmount,
		o.Currency,
	)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.host == "" {
		// mail not configured; behave like the console notifier in dev
		log.Printf("[mail] to=%s subject=%q", to, subject)
		return nil
	}

	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n" +
			"\r\n" + body,
	)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}

var _ Mailer = (*SMTPMailer)(nil)
