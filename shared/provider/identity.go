package provider

import (
	"time"

	"github.com/rs/zerolog"
)

// AttributeSubject is the attribute holding the provider's stable subject identifier.
const AttributeSubject = "sub"

// Attribute is a single name/value pair reported by the identity provider.
type Attribute struct {
	Name  string
	Value string
}

// Identity is the provider's representation of an account.
type Identity struct {
	Username   string
	Status     string
	Enabled    bool
	CreatedAt  time.Time
	Attributes []Attribute
}

// Attribute returns the value of the named attribute.
func (i *Identity) Attribute(name string) (string, bool) {
	for _, attr := range i.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Subject returns the `sub` attribute, or "" when the provider did not report one.
func (i *Identity) Subject() string {
	sub, _ := i.Attribute(AttributeSubject)
	return sub
}

func (i *Identity) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", i.Username).
		Str("status", i.Status).
		Bool("enabled", i.Enabled).
		Time("created_at", i.CreatedAt)

	attrs := zerolog.Dict()
	for _, attr := range i.Attributes {
		attrs.Str(attr.Name, attr.Value)
	}
	e.Dict("attributes", attrs)
}
