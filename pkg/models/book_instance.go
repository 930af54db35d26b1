package models

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/uptrace/bun"
)

const (
	BookInstanceStatusAvailable   = "Available"
	BookInstanceStatusMaintenance = "Maintenance"
	BookInstanceStatusLoaned      = "Loaned"
	BookInstanceStatusReserved    = "Reserved"
)

// BookInstanceStatuses lists the statuses in the order the form offers them.
var BookInstanceStatuses = []string{
	BookInstanceStatusMaintenance,
	BookInstanceStatusAvailable,
	BookInstanceStatusLoaned,
	BookInstanceStatusReserved,
}

// BookInstance is a physical copy of a book.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookID    string    `json:"book_id"`
	Book      *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint   string    `json:"imprint"`
	Status    string    `json:"status"`
	DueBack   time.Time `json:"due_back"`
}

func (bi *BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

// DueBackFormatted renders the due date for people, e.g. "October 14th, 2026".
func (bi *BookInstance) DueBackFormatted() string {
	d := bi.DueBack
	return d.Format("January") + " " + humanize.Ordinal(d.Day()) + ", " + strconv.Itoa(d.Year())
}

// DueBackFormattedForm renders the due date for a date input.
func (bi *BookInstance) DueBackFormattedForm() string {
	return bi.DueBack.Format(dateLayout)
}
