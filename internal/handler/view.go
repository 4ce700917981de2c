package handler

import (
	"strconv"

	"moviehub/internal/models"
	"moviehub/internal/service"
)

// movieView flattens a movie row for templates: absent fields render as
// empty strings instead of pointer values.
type movieView struct {
	ID       int64
	UserID   int64
	Title    string
	Director string
	Year     string
	Plot     string
	Poster   string
	Rating   string
}

func newMovieView(m models.Movie) movieView {
	v := movieView{
		ID:     m.ID,
		UserID: m.UserID,
		Title:  m.Title,
	}
	if m.Director != nil {
		v.Director = *m.Director
	}
	if m.Year != nil {
		v.Year = strconv.Itoa(*m.Year)
	}
	if m.Plot != nil {
		v.Plot = *m.Plot
	}
	if m.Poster != nil {
		v.Poster = *m.Poster
	}
	if m.Rating != nil {
		v.Rating = strconv.FormatFloat(*m.Rating, 'f', 1, 64)
	}
	return v
}

func newMovieViews(movies []models.Movie) []movieView {
	views := make([]movieView, 0, len(movies))
	for _, m := range movies {
		views = append(views, newMovieView(m))
	}
	return views
}

// movieFormValues prefills the update form from an existing row.
func movieFormValues(m models.Movie) service.MovieInput {
	v := newMovieView(m)
	return service.MovieInput{
		Title:    v.Title,
		Director: v.Director,
		Year:     v.Year,
		Plot:     v.Plot,
		Poster:   v.Poster,
		Rating:   v.Rating,
	}
}
