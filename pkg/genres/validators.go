package genres

type GenrePayload struct {
	Name string `form:"name" json:"name" mod:"trim,escape" validate:"required" msg:"Genre name required"`
}

type DeleteGenrePayload struct {
	GenreID string `form:"genreid" json:"genreid" mod:"trim"`
}
