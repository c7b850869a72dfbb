package service

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/smdata-dev/smdata/internal/notification"
	"github.com/smdata-dev/smdata/internal/storage"
)

const phoneNotProvided = "Not provided"

// Composer turns a stored submission into the operator notification.
type Composer struct {
	SiteName    string
	From        string
	Recipient   string
	PhoneRegion string
}

// Subject returns the notification subject for a submitter.
func (c Composer) Subject(name string) string {
	return "New Contact Form Submission from " + name
}

// Compose builds the notification message for sub. Replies go to the submitter.
func (c Composer) Compose(sub *storage.Submission) notification.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "New contact form submission from %s website:\n\n", c.SiteName)
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	fmt.Fprintf(&b, "Phone: %s\n\n", c.formatPhone(sub.Phone))
	fmt.Fprintf(&b, "Message:\n%s\n\n", sub.Message)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "This message was sent from the contact form on %s\n", c.SiteName)

	return notification.Message{
		From:    c.From,
		To:      c.Recipient,
		ReplyTo: sub.Email,
		Subject: c.Subject(sub.Name),
		Body:    b.String(),
	}
}

// formatPhone returns the number as the visitor typed it. When it parses as a
// valid number in another spelling, the international form follows in
// parentheses.
func (c Composer) formatPhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return phoneNotProvided
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(c.PhoneRegion))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	intl := phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
	if intl == raw {
		return raw
	}
	return raw + " (" + intl + ")"
}
