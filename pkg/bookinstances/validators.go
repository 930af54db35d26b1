package bookinstances

import (
	"time"

	"github.com/shishobooks/locallibrary/pkg/binder"
	"github.com/shishobooks/locallibrary/pkg/models"
)

type BookInstancePayload struct {
	Book    string `form:"book" json:"book" mod:"trim,escape" validate:"required" msg:"Book must be specified"`
	Imprint string `form:"imprint" json:"imprint" mod:"trim,escape" validate:"required" msg:"Imprint must be specified"`
	Status  string `form:"status" json:"status" mod:"trim,escape" default:"Maintenance" validate:"oneof=Available Maintenance Loaned Reserved" msg:"Invalid status"`
	DueBack string `form:"due_back" json:"due_back" mod:"trim" validate:"omitempty,iso8601" msg:"Invalid date"`
}

// apply copies the payload onto instance. A blank or unparseable due date
// becomes now.
func (p BookInstancePayload) apply(instance *models.BookInstance, now time.Time) {
	instance.BookID = p.Book
	instance.Imprint = p.Imprint
	instance.Status = p.Status
	instance.DueBack = now
	if dueBack, err := binder.ParseDate(p.DueBack); err == nil && dueBack != nil {
		instance.DueBack = *dueBack
	}
}

type DeleteBookInstancePayload struct {
	BookInstanceID string `form:"bookinstanceid" json:"bookinstanceid" mod:"trim"`
}
