package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/model"
)

// RegistrationNotifier is told about every stored profile. Its failures are
// logged by the coordinator and never fail the registration.
type RegistrationNotifier interface {
	ProfileCreated(ctx context.Context, profile *model.Profile) error
}

// HTMLSender sends an HTML email.
type HTMLSender interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// EventPublisher publishes a keyed event.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value any) error
}

const activationSubject = "Activate your account"

var activationTemplate = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html>
  <body>
    <p>Hi {{.Name}},</p>
    <p>Welcome aboard. Follow the link below to activate your account.</p>
    <p><a href="{{.Link}}">Activate account</a></p>
  </body>
</html>
`))

type activationMailNotifier struct {
	sender        HTMLSender
	activationURL string
}

// NewActivationMailNotifier mails the activation link to new members.
func NewActivationMailNotifier(sender HTMLSender, activationURL string) RegistrationNotifier {
	return &activationMailNotifier{sender: sender, activationURL: activationURL}
}

func (n *activationMailNotifier) ProfileCreated(_ context.Context, profile *model.Profile) error {
	link, err := activationLink(n.activationURL, profile.ActivationCode)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := activationTemplate.Execute(&body, struct {
		Name string
		Link string
	}{Name: profile.Name, Link: link}); err != nil {
		return fmt.Errorf("failed to render activation mail: %w", err)
	}

	if err := n.sender.SendHTML([]string{profile.Email}, activationSubject, body.String()); err != nil {
		return fmt.Errorf("failed to send activation mail: %w", err)
	}

	return nil
}

func activationLink(base, code string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid activation url: %w", err)
	}

	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// ProfileCreatedEvent is published after a profile is stored.
type ProfileCreatedEvent struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Handle       string    `json:"handle"`
	SourceSystem string    `json:"source_system"`
	CreatedAt    time.Time `json:"created_at"`
}

type profileEventNotifier struct {
	publisher EventPublisher
}

// NewProfileEventNotifier publishes a ProfileCreatedEvent keyed by profile id.
func NewProfileEventNotifier(publisher EventPublisher) RegistrationNotifier {
	return &profileEventNotifier{publisher: publisher}
}

func (n *profileEventNotifier) ProfileCreated(ctx context.Context, profile *model.Profile) error {
	return n.publisher.Publish(ctx, profile.ID, ProfileCreatedEvent{
		ID:           profile.ID,
		Email:        profile.Email,
		Name:         profile.Name,
		Handle:       profile.Handle,
		SourceSystem: profile.SourceSystem,
		CreatedAt:    profile.CreatedAt,
	})
}
