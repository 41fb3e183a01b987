package dispatch

import (
	"net/http"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/parnurzeal/gorequest"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/xerrors"
)

const (
	resendURL   = "https://api.resend.com/emails"
	sendTimeout = 30 * time.Second
)

// Message is the payload accepted by the Resend email API.
type Message struct {
	From    string `json:"from" validate:"required,mailbox"`
	To      string `json:"to" validate:"required,mailbox"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html" validate:"required"`
}

type Mailer struct {
	url      string
	apiKey   string
	validate *validator.Validate
}

type MailerOption func(*Mailer)

func WithEndpoint(url string) MailerOption {
	return func(m *Mailer) { m.url = url }
}

func NewMailer(apiKey string, opts ...MailerOption) (*Mailer, error) {
	if apiKey == "" {
		return nil, xerrors.New("RESEND_API_KEY is required to send email")
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("mailbox", validMailbox); err != nil {
		return nil, xerrors.Errorf("failed to register validation: %w", err)
	}

	m := &Mailer{url: resendURL, apiKey: apiKey, validate: v}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// validMailbox accepts "user@example.com" and "Name <user@example.com>".
func validMailbox(fl validator.FieldLevel) bool {
	_, err := mail.ParseAddress(fl.Field().String())
	return err == nil
}

// Send delivers msg and returns the id assigned by the provider.
func (m *Mailer) Send(msg Message) (string, error) {
	if err := m.validate.Struct(msg); err != nil {
		return "", xerrors.Errorf("invalid email: %w", err)
	}

	resp, body, errs := gorequest.New().Post(m.url).
		Timeout(sendTimeout).
		Set("Authorization", "Bearer "+m.apiKey).
		Set("Idempotency-Key", uuid.NewString()).
		Send(msg).
		EndBytes()
	if len(errs) > 0 {
		return "", &Error{Op: "send email", Err: errs[0]}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &Error{Op: "send email", StatusCode: resp.StatusCode, Body: string(body)}
	}

	id := gjson.GetBytes(body, "id").String()
	log.Printf("Email sent successfully! id: %s", id)
	return id, nil
}
