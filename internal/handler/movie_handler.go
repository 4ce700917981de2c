package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moviehub/internal/metadata/omdb"
	"moviehub/internal/models"
	"moviehub/internal/repository"
	"moviehub/internal/service"
)

// Slightly above the metadata client's own timeout so the client, not the
// request context, decides when a slow upstream call is over.
const fetchTimeout = 20 * time.Second

type MovieHandler struct {
	movies       service.MovieService
	users        service.UserService
	fetchEnabled bool
	log          *zap.Logger
}

func NewMovieHandler(movies service.MovieService, users service.UserService, fetchEnabled bool, log *zap.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, users: users, fetchEnabled: fetchEnabled, log: log}
}

func (h *MovieHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/users/:id/add_movie", h.AddForm)
	r.POST("/users/:id/add_movie", h.Add)
	r.GET("/movie/:id", h.Detail)
	r.GET("/movie/:id/update", h.UpdateForm)
	r.POST("/movie/:id/update", h.Update)
	r.POST("/movie/:id/delete", h.Delete)
}

func (h *MovieHandler) AddForm(c *gin.Context) {
	user, ok := h.ownerOrRedirect(c)
	if !ok {
		return
	}
	h.renderAddForm(c, http.StatusOK, user, "manual", service.MovieInput{}, "")
}

// Add creates a movie for a user, either from manual form entry or by
// fetching metadata for the entered title.
func (h *MovieHandler) Add(c *gin.Context) {
	user, ok := h.ownerOrRedirect(c)
	if !ok {
		return
	}

	mode := c.PostForm("mode")
	if mode != "fetch" {
		mode = "manual"
	}
	in := movieInputFromForm(c)

	if mode == "fetch" {
		h.addFromLookup(c, user, in)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	movie, warnings, err := h.movies.AddManual(ctx, user.ID, in)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			h.renderAddForm(c, http.StatusBadRequest, user, mode, in, ve.Message)
		case errors.Is(err, repository.ErrNotFound):
			flash(c, flashError, "User not found")
			c.Redirect(http.StatusSeeOther, "/users")
		default:
			h.log.Error("add movie", zap.Int64("user_id", user.ID), zap.Error(err))
			flash(c, flashError, "Could not save the movie, please try again")
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/users/%d", user.ID))
		}
		return
	}

	flashWarnings(c, warnings)
	flash(c, flashSuccess, fmt.Sprintf("Added %q", movie.Title))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/users/%d", user.ID))
}

func (h *MovieHandler) addFromLookup(c *gin.Context, user *models.User, in service.MovieInput) {
	if !h.fetchEnabled {
		h.renderAddForm(c, http.StatusOK, user, "fetch", in, omdb.ErrNotConfigured.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	movie, err := h.movies.AddFromLookup(ctx, user.ID, in.Title)
	if err != nil {
		var ve *service.ValidationError
		var ue *omdb.UpstreamError
		switch {
		case errors.As(err, &ve):
			h.renderAddForm(c, http.StatusBadRequest, user, "fetch", in, ve.Message)
		case errors.Is(err, omdb.ErrNotConfigured), errors.Is(err, omdb.ErrNotFound):
			h.renderAddForm(c, http.StatusOK, user, "fetch", in, err.Error())
		case errors.As(err, &ue):
			h.log.Warn("metadata lookup failed", zap.String("title", in.Title), zap.Error(err))
			h.renderAddForm(c, http.StatusOK, user, "fetch", in, ue.Error())
		case errors.Is(err, repository.ErrNotFound):
			flash(c, flashError, "User not found")
			c.Redirect(http.StatusSeeOther, "/users")
		default:
			h.log.Error("add movie from lookup", zap.Int64("user_id", user.ID), zap.Error(err))
			flash(c, flashError, "Could not save the movie, please try again")
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/users/%d", user.ID))
		}
		return
	}

	flash(c, flashSuccess, fmt.Sprintf("Added %q", movie.Title))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/users/%d", user.ID))
}

func (h *MovieHandler) Detail(c *gin.Context) {
	movie, ok := h.movieOrRedirect(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "movie_detail.html", movie.Title, gin.H{
		"Movie": newMovieView(*movie),
	})
}

func (h *MovieHandler) UpdateForm(c *gin.Context) {
	movie, ok := h.movieOrRedirect(c)
	if !ok {
		return
	}
	if !h.ownerExists(c, movie.UserID) {
		return
	}
	h.renderUpdateForm(c, http.StatusOK, *movie, movieFormValues(*movie), "")
}

func (h *MovieHandler) Update(c *gin.Context) {
	movie, ok := h.movieOrRedirect(c)
	if !ok {
		return
	}
	if !h.ownerExists(c, movie.UserID) {
		return
	}

	in := movieInputFromForm(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	updated, warnings, err := h.movies.Update(ctx, movie.ID, in)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			h.renderUpdateForm(c, http.StatusBadRequest, *movie, in, ve.Message)
		case errors.Is(err, repository.ErrNotFound):
			flash(c, flashError, "Movie not found")
			c.Redirect(http.StatusSeeOther, "/users")
		default:
			h.log.Error("update movie", zap.Int64("movie_id", movie.ID), zap.Error(err))
			flash(c, flashError, "Could not update the movie, please try again")
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/movie/%d", movie.ID))
		}
		return
	}

	flashWarnings(c, warnings)
	flash(c, flashSuccess, fmt.Sprintf("Updated %q", updated.Title))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/movie/%d", movie.ID))
}

// Delete removes a movie and returns to the owning user's list, with
// differentiated feedback for the success and failure cases.
func (h *MovieHandler) Delete(c *gin.Context) {
	movie, ok := h.movieOrRedirect(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.movies.Delete(ctx, movie.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "Movie not found")
		} else {
			h.log.Error("delete movie", zap.Int64("movie_id", movie.ID), zap.Error(err))
			flash(c, flashError, "Could not delete the movie, please try again")
		}
	} else {
		flash(c, flashSuccess, fmt.Sprintf("Deleted %q", movie.Title))
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/users/%d", movie.UserID))
}

// ownerOrRedirect resolves the :id route parameter to an existing user, or
// redirects to the user list with a message.
func (h *MovieHandler) ownerOrRedirect(c *gin.Context) (*models.User, bool) {
	id, ok := paramID(c)
	if !ok {
		flash(c, flashError, "User not found")
		c.Redirect(http.StatusSeeOther, "/users")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "User not found")
			c.Redirect(http.StatusSeeOther, "/users")
		} else {
			h.log.Error("get user", zap.Int64("user_id", id), zap.Error(err))
			renderInternalError(c)
		}
		return nil, false
	}
	return user, true
}

func (h *MovieHandler) movieOrRedirect(c *gin.Context) (*models.Movie, bool) {
	id, ok := paramID(c)
	if !ok {
		flash(c, flashError, "Movie not found")
		c.Redirect(http.StatusSeeOther, "/users")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	movie, err := h.movies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "Movie not found")
			c.Redirect(http.StatusSeeOther, "/users")
		} else {
			h.log.Error("get movie", zap.Int64("movie_id", id), zap.Error(err))
			renderInternalError(c)
		}
		return nil, false
	}
	return movie, true
}

func (h *MovieHandler) ownerExists(c *gin.Context, userID int64) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if _, err := h.users.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "User not found")
			c.Redirect(http.StatusSeeOther, "/users")
		} else {
			h.log.Error("get user", zap.Int64("user_id", userID), zap.Error(err))
			renderInternalError(c)
		}
		return false
	}
	return true
}

func (h *MovieHandler) renderAddForm(c *gin.Context, status int, user *models.User, mode string, form service.MovieInput, errMsg string) {
	render(c, status, "add_movie.html", "Add movie for "+user.Username, gin.H{
		"User":         user,
		"Mode":         mode,
		"Form":         form,
		"Error":        errMsg,
		"FetchEnabled": h.fetchEnabled,
	})
}

func (h *MovieHandler) renderUpdateForm(c *gin.Context, status int, movie models.Movie, form service.MovieInput, errMsg string) {
	render(c, status, "update_movie.html", "Edit "+movie.Title, gin.H{
		"Movie": newMovieView(movie),
		"Form":  form,
		"Error": errMsg,
	})
}

func movieInputFromForm(c *gin.Context) service.MovieInput {
	return service.MovieInput{
		Title:    c.PostForm("title"),
		Director: c.PostForm("director"),
		Year:     c.PostForm("year"),
		Plot:     c.PostForm("plot"),
		Poster:   c.PostForm("poster"),
		Rating:   c.PostForm("rating"),
	}
}

func flashWarnings(c *gin.Context, warnings []string) {
	for _, w := range warnings {
		flash(c, flashError, w)
	}
}
