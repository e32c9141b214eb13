// Package mail relays contact form submissions to the site owner's inbox.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidContact = errors.New("invalid contact submission")
	ErrNotConfigured  = errors.New("SMTP credentials not configured")
)

// Contact is one submission of the contact form.
type Contact struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required,max=300"`
	Message string `json:"message" form:"message" validate:"required,max=10000"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Normalize trims surrounding whitespace from every field.
func (c Contact) Normalize() Contact {
	return Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Subject: strings.TrimSpace(c.Subject),
		Message: strings.TrimSpace(c.Message),
	}
}

// Validate reports every missing or malformed field.
func (c Contact) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: check %s", ErrInvalidContact, strings.Join(fields, ", "))
}

// Message is a composed email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`Name: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<h3>New Contact Form Submission</h3>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

// Compose renders c into a message from `from` to `to` with replies going to
// the submitter.
func Compose(c Contact, from, to string) (Message, error) {
	var text, html bytes.Buffer
	if err := textBody.Execute(&text, c); err != nil {
		return Message{}, err
	}
	if err := htmlBody.Execute(&html, c); err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      to,
		ReplyTo: c.Email,
		Subject: "Portfolio Contact: " + oneLine(c.Subject),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Sender delivers composed messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Archive records the outcome of each submission.
type Archive interface {
	SaveContact(ctx context.Context, c Contact, delivered bool, failure string) (string, error)
}

// Relay validates, composes, sends and archives contact submissions.
type Relay struct {
	sender  Sender
	archive Archive
	from    string
	to      string
	log     zerolog.Logger
}

// NewRelay creates a relay. archive may be nil.
func NewRelay(sender Sender, archive Archive, from, to string, log zerolog.Logger) *Relay {
	return &Relay{sender: sender, archive: archive, from: from, to: to, log: log.With().Str("component", "mail").Logger()}
}

// Deliver relays one submission. Validation failures wrap ErrInvalidContact.
func (r *Relay) Deliver(ctx context.Context, c Contact) error {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}

	msg, err := Compose(c, r.from, r.to)
	if err == nil {
		err = r.sender.Send(ctx, msg)
	}

	if r.archive != nil {
		failure := ""
		if err != nil {
			failure = err.Error()
		}
		if _, archiveErr := r.archive.SaveContact(ctx, c, err == nil, failure); archiveErr != nil {
			r.log.Warn().Err(archiveErr).Msg("Failed to archive contact submission")
		}
	}

	if err != nil {
		r.log.Error().Err(err).Str("reply_to", c.Email).Msg("Error sending email")
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	r.log.Info().Str("name", c.Name).Str("reply_to", c.Email).Msg("Email sent successfully")
	return nil
}
