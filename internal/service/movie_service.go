package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"moviehub/internal/metadata/omdb"
	"moviehub/internal/models"
	"moviehub/internal/repository"
)

// MovieInput carries the raw form values of the add/update movie forms.
// Normalization and validation happen here, not in the handlers.
type MovieInput struct {
	Title    string
	Director string
	Year     string
	Plot     string
	Poster   string
	Rating   string
}

// MetadataFetcher is the part of the metadata client the movie service
// needs.
type MetadataFetcher interface {
	FetchByTitle(ctx context.Context, title string) (*omdb.Metadata, error)
}

type MovieService interface {
	ListForUser(ctx context.Context, userID int64, query string) ([]models.Movie, error)
	Get(ctx context.Context, id int64) (*models.Movie, error)
	AddManual(ctx context.Context, userID int64, in MovieInput) (*models.Movie, []string, error)
	AddFromLookup(ctx context.Context, userID int64, title string) (*models.Movie, error)
	Update(ctx context.Context, id int64, in MovieInput) (*models.Movie, []string, error)
	Delete(ctx context.Context, id int64) error
}

type movieService struct {
	repo    repository.MovieRepository
	users   repository.UserRepository
	fetcher MetadataFetcher
}

func NewMovieService(repo repository.MovieRepository, users repository.UserRepository, fetcher MetadataFetcher) MovieService {
	return &movieService{repo: repo, users: users, fetcher: fetcher}
}

func (s *movieService) ListForUser(ctx context.Context, userID int64, query string) ([]models.Movie, error) {
	if strings.TrimSpace(query) != "" {
		return s.repo.SearchByUser(ctx, userID, query)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *movieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	return s.repo.GetByID(ctx, id)
}

// AddManual validates the entered fields and inserts the movie. The second
// return value lists non-fatal warnings (an implausible year is dropped,
// not stored as-is).
func (s *movieService) AddManual(ctx context.Context, userID int64, in MovieInput) (*models.Movie, []string, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	movie, warnings, err := normalizeInput(in, true)
	if err != nil {
		return nil, nil, err
	}
	movie.UserID = userID

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, nil, err
	}
	return movie, warnings, nil
}

// AddFromLookup fills the movie from the external metadata service. Lookup
// failures pass through untouched so the handler can surface the specific
// failure kind.
func (s *movieService) AddFromLookup(ctx context.Context, userID int64, title string) (*models.Movie, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("Title is required")
	}

	meta, err := s.fetcher.FetchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	movie := &models.Movie{
		UserID: userID,
		Title:  meta.Title,
		Year:   meta.Year,
		Rating: meta.Rating,
	}
	if movie.Title == "" {
		movie.Title = title
	}
	if meta.Director != "" {
		movie.Director = &meta.Director
	}
	if meta.Plot != "" {
		movie.Plot = &meta.Plot
	}
	if meta.PosterURL != "" {
		movie.Poster = &meta.PosterURL
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Update applies the manual-entry validation rules to an existing movie and
// replaces all mutable fields (overwrite, not merge).
func (s *movieService) Update(ctx context.Context, id int64, in MovieInput) (*models.Movie, []string, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	movie, warnings, err := normalizeInput(in, true)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.Update(ctx, id, movie); err != nil {
		return nil, nil, err
	}
	movie.ID = id
	movie.UserID = existing.UserID
	return movie, warnings, nil
}

func (s *movieService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// normalizeInput turns raw form values into a movie row. Fatal problems
// return a *ValidationError; an implausible or unparsable year degrades to
// a warning with the field left absent.
func normalizeInput(in MovieInput, requireDirector bool) (*models.Movie, []string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, invalid("Title is required")
	}

	director := strings.TrimSpace(in.Director)
	if requireDirector && director == "" {
		return nil, nil, invalid("Director is required")
	}

	movie := &models.Movie{Title: title}
	if director != "" {
		movie.Director = &director
	}

	if plot := strings.TrimSpace(in.Plot); plot != "" {
		movie.Plot = &plot
	}

	if poster := strings.TrimSpace(in.Poster); poster != "" {
		u, err := url.Parse(poster)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, nil, invalid("Poster must be a valid http(s) URL")
		}
		movie.Poster = &poster
	}

	if rating := strings.TrimSpace(in.Rating); rating != "" {
		v, err := strconv.ParseFloat(rating, 64)
		if err != nil {
			return nil, nil, invalid("Rating must be a number")
		}
		if v < 0 || v > 10 {
			return nil, nil, invalid("Rating must be between 0.0 and 10.0")
		}
		movie.Rating = &v
	}

	var warnings []string
	if year := strings.TrimSpace(in.Year); year != "" {
		movie.Year = omdb.ParseYear(year)
		if movie.Year == nil {
			warnings = append(warnings, fmt.Sprintf("Year %q looks implausible and was not stored", year))
		}
	}

	return movie, warnings, nil
}
