package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"socialite/internal/utils"
)

// Gender is the profile gender choice.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Profile struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	AccountID uuid.UUID  `json:"accountId" db:"account_id"`
	Nickname  string     `json:"nickname" db:"nickname"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Gender    Gender     `json:"gender" db:"gender"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Bio       *string    `json:"bio,omitempty" db:"bio"`
	Picture   *string    `json:"profilePicture,omitempty" db:"picture"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// FullName is first/last name when set, falling back to the nickname.
func (p *Profile) FullName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Nickname
	}
	return name
}

func (p *Profile) Validate() error {
	if p.Nickname == "" {
		return utils.NewValidationError("nickname is required")
	}
	if !p.Gender.Valid() {
		return utils.NewValidationError("gender must be one of M, F, O")
	}
	return nil
}
