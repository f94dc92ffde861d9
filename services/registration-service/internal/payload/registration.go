package payload

import (
	"time"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/model"
)

type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
	SourceSystem   string `json:"source_system"`
}

type BioResponse struct {
	Avatar string `json:"avatar"`
}

type ProfileResponse struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Handle       string      `json:"handle"`
	Role         string      `json:"role"`
	Status       string      `json:"status"`
	Badges       []string    `json:"badges"`
	Bio          BioResponse `json:"bio"`
	SourceSystem string      `json:"source_system"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewProfileResponse exposes a profile without its activation code or source IP.
func NewProfileResponse(profile *model.Profile) ProfileResponse {
	badges := make([]string, 0, len(profile.Badges))
	for _, b := range profile.Badges {
		badges = append(badges, string(b))
	}

	return ProfileResponse{
		ID:           profile.ID,
		Email:        profile.Email,
		Name:         profile.Name,
		Handle:       profile.Handle,
		Role:         string(profile.Role),
		Status:       string(profile.Status),
		Badges:       badges,
		Bio:          BioResponse{Avatar: profile.Bio.Avatar},
		SourceSystem: profile.SourceSystem,
		CreatedAt:    profile.CreatedAt,
	}
}

type OrphanResponse struct {
	Username  string    `json:"username"`
	Subject   string    `json:"sub,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Deleted   bool      `json:"deleted"`
}

type ReconcileResponse struct {
	Scanned int              `json:"scanned"`
	Deleted int              `json:"deleted"`
	Orphans []OrphanResponse `json:"orphans"`
}
