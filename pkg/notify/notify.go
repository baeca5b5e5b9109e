package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrNotConfigured = errors.New("notification channel not configured")

type Email struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	// Text is derived from HTML when empty.
	Text string
}

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type Texter interface {
	SendSMS(ctx context.Context, to, body string) error
}

// PlainText flattens an HTML fragment to readable text, one block per line.
func PlainText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, h1, h2, h3, h4, tr, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	lines := strings.Split(doc.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func textOf(msg Email) string {
	if msg.Text != "" {
		return msg.Text
	}
	return PlainText(msg.HTML)
}

type fallbackMailer []Mailer

// Fallback tries each mailer in order until one accepts the message.
func Fallback(mailers ...Mailer) Mailer {
	var out fallbackMailer
	for _, m := range mailers {
		if m != nil {
			out = append(out, m)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (f fallbackMailer) Send(ctx context.Context, msg Email) error {
	var errs []error
	for _, m := range f {
		err := m.Send(ctx, msg)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
