package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          string     `bun:",pk" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstName   string     `json:"first_name"`
	FamilyName  string     `json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

// FullName joins the first and family names. It's empty unless both are set,
// so an author never shows up under half a name.
func (a *Author) FullName() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FirstName + " " + a.FamilyName
}

// Lifespan renders the birth and death years, e.g. "1775 - 1817". A missing
// date leaves its side blank.
func (a *Author) Lifespan() string {
	return year(a.DateOfBirth) + " - " + year(a.DateOfDeath)
}

func (a *Author) DateOfBirthForm() string {
	return formDate(a.DateOfBirth)
}

func (a *Author) DateOfDeathForm() string {
	return formDate(a.DateOfDeath)
}

func (a *Author) URL() string {
	return "/catalog/author/" + a.ID
}
