package books

import (
	"github.com/shishobooks/locallibrary/pkg/models"
)

type BookPayload struct {
	Title   string   `form:"title" json:"title" mod:"trim,escape" validate:"required" msg:"Title must not be empty."`
	Author  string   `form:"author" json:"author" mod:"trim,escape" validate:"required" msg:"Author must not be empty."`
	Summary string   `form:"summary" json:"summary" mod:"trim,escape" validate:"required" msg:"Summary must not be empty."`
	ISBN    string   `form:"isbn" json:"isbn" mod:"trim,escape" validate:"required" msg:"ISBN must not be empty."`
	Genre   []string `form:"genre" json:"genre" mod:"dive,trim,escape"`
}

func (p BookPayload) apply(book *models.Book) {
	book.Title = p.Title
	book.AuthorID = p.Author
	book.Summary = p.Summary
	book.ISBN = p.ISBN
}

type DeleteBookPayload struct {
	BookID string `form:"bookid" json:"bookid" mod:"trim"`
}
