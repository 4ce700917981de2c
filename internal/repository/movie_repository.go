package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"moviehub/internal/models"
)

// MovieRepository defines the data operations on movies.
type MovieRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Movie, error)
	SearchByUser(ctx context.Context, userID int64, query string) ([]models.Movie, error)
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	Create(ctx context.Context, movie *models.Movie) error
	Update(ctx context.Context, id int64, movie *models.Movie) error
	Delete(ctx context.Context, id int64) error
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) ListByUser(ctx context.Context, userID int64) ([]models.Movie, error) {
	var movies []models.Movie
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("title asc").
		Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("list movies of user %d: %w", userID, err)
	}
	return movies, nil
}

// SearchByUser performs a case-insensitive partial match on title and
// director within one user's list. Each whitespace-separated token must
// appear in at least one of the two fields.
func (r *movieRepository) SearchByUser(ctx context.Context, userID int64, query string) ([]models.Movie, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return r.ListByUser(ctx, userID)
	}

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	for _, t := range tokens {
		p := "%" + strings.ToLower(t) + "%"
		// COALESCE keeps NULL directors from defeating the match
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(COALESCE(director,'')) LIKE ?)", p, p)
	}

	var movies []models.Movie
	if err := q.Order("title asc").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("search movies of user %d: %w", userID, err)
	}
	return movies, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		return fmt.Errorf("create movie: %w", err)
	}
	return nil
}

// Update replaces the six mutable fields by id. Overwrite semantics: fields
// absent in the input are written as NULL, not merged.
func (r *movieRepository) Update(ctx context.Context, id int64, movie *models.Movie) error {
	res := r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("id = ?", id).
		Select("Title", "Director", "Year", "Plot", "Poster", "Rating").
		Updates(movie)
	if res.Error != nil {
		return fmt.Errorf("update movie %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Movie{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete movie %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
