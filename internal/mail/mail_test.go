package mail

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type archived struct {
	contact   Contact
	delivered bool
	failure   string
}

type fakeArchive struct{ records []archived }

func (f *fakeArchive) SaveContact(ctx context.Context, c Contact, delivered bool, failure string) (string, error) {
	f.records = append(f.records, archived{c, delivered, failure})
	return "id", nil
}

func validContact() Contact {
	return Contact{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Collaboration",
		Message: "Let's build <something>.",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validContact().Validate())

	c := validContact()
	c.Email = "not-an-email"
	c.Subject = ""
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidContact)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "subject")
}

func TestComposeEscapesHTML(t *testing.T) {
	msg, err := Compose(validContact(), "site@example.com", "owner@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Portfolio Contact: Collaboration", msg.Subject)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Text, "Let's build <something>.")
	assert.Contains(t, msg.HTML, "&lt;something&gt;")
	assert.NotContains(t, msg.HTML, "<something>")
}

func TestComposeSubjectSingleLine(t *testing.T) {
	c := validContact()
	c.Subject = "hi\r\nBcc: victim@example.com"
	msg, err := Compose(c, "a@example.com", "b@example.com")
	require.NoError(t, err)
	assert.NotContains(t, msg.Subject, "\n")
}

func TestEncode(t *testing.T) {
	msg, err := Compose(validContact(), "site@example.com", "owner@example.com")
	require.NoError(t, err)
	raw, err := Encode(msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", parsed.Header.Get("Reply-To"))

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])
	var types []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
	}
	assert.Equal(t, []string{"text/plain; charset=UTF-8", "text/html; charset=UTF-8"}, types)
}

func TestRelayDeliver(t *testing.T) {
	sender := &fakeSender{}
	archive := &fakeArchive{}
	relay := NewRelay(sender, archive, "site@example.com", "owner@example.com", zerolog.Nop())

	c := validContact()
	c.Name = "  Ada Lovelace  "
	require.NoError(t, relay.Deliver(context.Background(), c))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@example.com", sender.sent[0].To)
	require.Len(t, archive.records, 1)
	assert.True(t, archive.records[0].delivered)
	assert.Equal(t, "Ada Lovelace", archive.records[0].contact.Name)
}

func TestRelayDeliverFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	archive := &fakeArchive{}
	relay := NewRelay(sender, archive, "a@example.com", "b@example.com", zerolog.Nop())

	err := relay.Deliver(context.Background(), validContact())
	require.Error(t, err)
	require.Len(t, archive.records, 1)
	assert.False(t, archive.records[0].delivered)
	assert.Contains(t, archive.records[0].failure, "connection refused")
}

func TestRelayRejectsInvalid(t *testing.T) {
	sender := &fakeSender{}
	relay := NewRelay(sender, nil, "a@example.com", "b@example.com", zerolog.Nop())

	err := relay.Deliver(context.Background(), Contact{Name: "x"})
	require.ErrorIs(t, err, ErrInvalidContact)
	assert.Empty(t, sender.sent)
}

func TestSMTPSenderRequiresCredentials(t *testing.T) {
	s := &SMTPSender{Host: "localhost", Port: "25"}
	err := s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
