package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"catering/entities"
	"catering/pkg/logger"
	"catering/pkg/metrics"
)

// Dispatcher sends customer and admin messages. Confirmation sends are best
// effort; SendProposal reports its error because sending is the caller's goal.
type Dispatcher struct {
	mail       Mailer
	sms        Texter
	adminEmail string
	log        *logger.Logger
}

func NewDispatcher(log *logger.Logger, mail Mailer, sms Texter, adminEmail string) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{mail: mail, sms: sms, adminEmail: adminEmail, log: log.With("component", "notify")}
}

func (d *Dispatcher) RequestReceived(ctx context.Context, r *entities.CateringRequest, p *entities.Proposal, ref string) {
	subject := fmt.Sprintf("Your catering proposal %s", ref)
	body := proposalHTML(r, p, ref)
	d.best(ctx, "email", func() error {
		return d.email(ctx, Email{To: r.Email, ToName: r.Name, Subject: subject, HTML: body})
	})
	if strings.TrimSpace(r.Phone) != "" {
		d.best(ctx, "sms", func() error {
			return d.text(ctx, r.Phone, fmt.Sprintf("Hi %s, we received your catering request (%s). Estimated total $%.2f. Check your email for the full proposal.",
				firstName(r.Name), ref, p.EstimatedCost))
		})
	}
	if d.adminEmail != "" {
		d.best(ctx, "admin_email", func() error {
			return d.email(ctx, Email{
				To:      d.adminEmail,
				Subject: fmt.Sprintf("New catering request %s from %s", ref, r.Name),
				HTML:    adminHTML(r, p, ref),
			})
		})
	}
}

// SendProposal emails the given proposal version to the customer.
func (d *Dispatcher) SendProposal(ctx context.Context, r *entities.CateringRequest, p *entities.Proposal) error {
	ref := Ref(r.ID)
	err := d.email(ctx, Email{
		To:      r.Email,
		ToName:  r.Name,
		Subject: fmt.Sprintf("Catering proposal %s (v%d)", ref, p.Version),
		HTML:    proposalHTML(r, p, ref),
	})
	if err != nil {
		metrics.NotificationFailures.WithLabelValues("email").Inc()
	}
	return err
}

func (d *Dispatcher) best(ctx context.Context, channel string, fn func() error) {
	if err := fn(); err != nil {
		metrics.NotificationFailures.WithLabelValues(channel).Inc()
		d.log.Warn("notification failed", "channel", channel, "error", err)
	}
}

func (d *Dispatcher) email(ctx context.Context, msg Email) error {
	if d.mail == nil {
		return ErrNotConfigured
	}
	return d.mail.Send(ctx, msg)
}

func (d *Dispatcher) text(ctx context.Context, to, body string) error {
	if d.sms == nil {
		return ErrNotConfigured
	}
	return d.sms.SendSMS(ctx, to, body)
}

// Ref is the customer-facing reference for a request id.
func Ref(requestID string) string {
	id := strings.ReplaceAll(requestID, "-", "")
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "EA-" + strings.ToUpper(id)
}

func proposalHTML(r *entities.CateringRequest, p *entities.Proposal, ref string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(firstName(r.Name)))
	fmt.Fprintf(&b, "<p>Reference: <strong>%s</strong></p>", ref)
	b.WriteString("<div>")
	for _, line := range strings.Split(p.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(strings.TrimLeft(line, "# ")))
	}
	b.WriteString("</div>")
	fmt.Fprintf(&b, "<p>Estimated total: <strong>$%.2f</strong></p>", p.EstimatedCost)
	return b.String()
}

func adminHTML(r *entities.CateringRequest, p *entities.Proposal, ref string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New request %s</h2><ul>", ref)
	fmt.Fprintf(&b, "<li>Name: %s</li>", html.EscapeString(r.Name))
	fmt.Fprintf(&b, "<li>Email: %s</li>", html.EscapeString(r.Email))
	if r.Phone != "" {
		fmt.Fprintf(&b, "<li>Phone: %s</li>", html.EscapeString(r.Phone))
	}
	fmt.Fprintf(&b, "<li>Guests: %d</li>", r.GuestCount)
	fmt.Fprintf(&b, "<li>Proteins: %s</li>", html.EscapeString(strings.Join(r.Proteins, ", ")))
	fmt.Fprintf(&b, "<li>Estimate: $%.2f (%s)</li></ul>", p.EstimatedCost, p.Generator)
	return b.String()
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "there"
}
