package authors

import (
	"github.com/shishobooks/locallibrary/pkg/binder"
	"github.com/shishobooks/locallibrary/pkg/models"
)

type AuthorPayload struct {
	FirstName   string `form:"first_name" json:"first_name" mod:"trim,escape" validate:"required,max=100,alphanumunicode" msg:"First name must be specified." msg_alphanumunicode:"First name has non-alphanumeric characters."`
	FamilyName  string `form:"family_name" json:"family_name" mod:"trim,escape" validate:"required,max=100,alphanumunicode" msg:"Family name must be specified." msg_alphanumunicode:"Family name has non-alphanumeric characters."`
	DateOfBirth string `form:"date_of_birth" json:"date_of_birth" mod:"trim,escape" validate:"omitempty,iso8601" msg:"Invalid date of birth"`
	DateOfDeath string `form:"date_of_death" json:"date_of_death" mod:"trim,escape" validate:"omitempty,iso8601" msg:"Invalid date of death"`
}

// apply copies the payload onto author. Dates that don't parse are left
// unset, which only happens when re-rendering a form that failed validation.
func (p AuthorPayload) apply(author *models.Author) {
	author.FirstName = p.FirstName
	author.FamilyName = p.FamilyName
	author.DateOfBirth, _ = binder.ParseDate(p.DateOfBirth)
	author.DateOfDeath, _ = binder.ParseDate(p.DateOfDeath)
}

type DeleteAuthorPayload struct {
	AuthorID string `form:"authorid" json:"authorid" mod:"trim"`
}
