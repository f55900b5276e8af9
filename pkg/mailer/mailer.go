// Package mailer sends the two operational emails of the booking flow:
// the admin alert when payment proof arrives and the customer update when
// an admin verifies a booking. Delivery failure is the caller's to log and
// swallow; the booking state change always wins.
package mailer

import (
	"context"
	"fmt"
	"time"

	"busbook/pkg/model"

	"github.com/mailersend/mailersend-go"
)

const sendTimeout = 5 * time.Second

type Mailer struct {
	client     *mailersend.Mailersend
	fromName   string
	fromEmail  string
	adminEmail string
}

func New(apiKey, fromName, fromEmail, adminEmail string) *Mailer {
	return &Mailer{
		client:     mailersend.NewMailersend(apiKey),
		fromName:   fromName,
		fromEmail:  fromEmail,
		adminEmail: adminEmail,
	}
}

// NotifyAdminProofSubmitted alerts the admin that a proof screenshot is
// waiting for verification.
func (m *Mailer) NotifyAdminProofSubmitted(ctx context.Context, booking *model.Booking) error {
	subject := fmt.Sprintf("ACTION REQUIRED: Payment verification for booking %s", booking.TrackingCode)
	html := fmt.Sprintf(`
		<p>A new payment proof screenshot has been uploaded. Tracking code: <strong>%s</strong></p>
		<p><strong>Customer:</strong> %s (%s, %s)</p>
		<p><strong>Trip:</strong> %s to %s on %s at %s</p>
		<p><strong>Amount:</strong> ₹%.2f</p>
		<p><strong>View proof:</strong> <a href="%s" target="_blank">payment screenshot</a></p>
		<p>Please verify the payment in the admin dashboard and set the status to Paid.</p>`,
		booking.TrackingCode,
		booking.CustomerName, booking.CustomerPhone, booking.CustomerEmail,
		booking.DepartureCity, booking.DestinationCity,
		booking.DepartureDate.Format("02 Jan 2006"), booking.DepartureTime,
		booking.TotalAmount,
		booking.ProofURL,
	)

	return m.send(ctx, m.adminEmail, subject, html)
}

// NotifyCustomerStatus tells the customer the outcome of verification.
func (m *Mailer) NotifyCustomerStatus(ctx context.Context, booking *model.Booking) error {
	if booking.CustomerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Booking %s: payment %s", booking.TrackingCode, booking.PaymentStatus)
	html := fmt.Sprintf(`
		<p>Your booking <strong>%s</strong> is now <strong>%s</strong>.</p>
		<p><strong>Trip:</strong> %s to %s on %s at %s</p>
		<p><strong>Seats:</strong> %v</p>
		<p><strong>Amount:</strong> ₹%.2f</p>`,
		booking.TrackingCode, booking.PaymentStatus,
		booking.DepartureCity, booking.DestinationCity,
		booking.DepartureDate.Format("02 Jan 2006"), booking.DepartureTime,
		booking.SelectedSeats,
		booking.TotalAmount,
	)

	return m.send(ctx, booking.CustomerEmail, subject, html)
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{{Email: to}})
	message.SetSubject(subject)
	message.SetHTML(html)

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
