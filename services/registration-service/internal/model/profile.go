package model

import (
	"time"

	"github.com/rs/zerolog"
)

// Role is the authorization role of a member.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Status is the lifecycle state of a profile.
type Status string

const (
	StatusUnconfirmed Status = "UNCONFIRMED"
	StatusConfirmed   Status = "CONFIRMED"
	StatusDisabled    Status = "DISABLED"
)

// Badge is an achievement tag shown on a profile.
type Badge string

const BadgeNewMember Badge = "NEW_MEMBER"

// Bio holds profile metadata.
type Bio struct {
	Avatar string `bson:"avatar"`
}

// Profile is the member record linked to an identity provider account. ID is the
// provider's subject identifier.
type Profile struct {
	ID             string         `bson:"_id"`
	CreatedAt      time.Time      `bson:"created_at"`
	Email          string         `bson:"email"`
	Name           string         `bson:"name"`
	Handle         string         `bson:"handle"`
	ActivationCode string         `bson:"activation_code"`
	SourceIP       string         `bson:"source_ip"`
	SourceSystem   string         `bson:"source_system"`
	Role           Role           `bson:"role"`
	Status         Status         `bson:"status"`
	Badges         []Badge        `bson:"badges"`
	Bio            Bio            `bson:"bio"`
	Data           map[string]any `bson:"data"`
}

// MarshalZerologObject logs the profile without its activation code.
func (p *Profile) MarshalZerologObject(e *zerolog.Event) {
	badges := zerolog.Arr()
	for _, b := range p.Badges {
		badges.Str(string(b))
	}

	e.Str("id", p.ID).
		Time("created_at", p.CreatedAt).
		Str("email", p.Email).
		Str("name", p.Name).
		Str("handle", p.Handle).
		Str("source_ip", p.SourceIP).
		Str("source_system", p.SourceSystem).
		Str("role", string(p.Role)).
		Str("status", string(p.Status)).
		Array("badges", badges)
}
