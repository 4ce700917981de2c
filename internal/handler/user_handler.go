package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moviehub/internal/repository"
	"moviehub/internal/service"
)

const dbTimeout = 5 * time.Second

type UserHandler struct {
	users  service.UserService
	movies service.MovieService
	log    *zap.Logger
}

func NewUserHandler(users service.UserService, movies service.MovieService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, movies: movies, log: log}
}

func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/users", h.List)
	r.GET("/users/:id", h.Movies)
	r.GET("/add_user", h.AddForm)
	r.POST("/add_user", h.Add)
	r.POST("/users/:id/delete", h.Delete)
}

func (h *UserHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", "MovieHub", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.log.Error("list users", zap.Error(err))
		renderInternalError(c)
		return
	}
	render(c, http.StatusOK, "users.html", "Users", gin.H{"Users": users})
}

// Movies shows one user's movie list, optionally filtered by ?q=.
func (h *UserHandler) Movies(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		flash(c, flashError, "User not found")
		c.Redirect(http.StatusSeeOther, "/users")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "User not found")
			c.Redirect(http.StatusSeeOther, "/users")
			return
		}
		h.log.Error("get user", zap.Int64("user_id", id), zap.Error(err))
		renderInternalError(c)
		return
	}

	query := c.Query("q")
	movies, err := h.movies.ListForUser(ctx, id, query)
	if err != nil {
		h.log.Error("list movies", zap.Int64("user_id", id), zap.Error(err))
		renderInternalError(c)
		return
	}

	render(c, http.StatusOK, "user_movies.html", user.Username+"'s movies", gin.H{
		"User":   user,
		"Movies": newMovieViews(movies),
		"Query":  query,
	})
}

func (h *UserHandler) AddForm(c *gin.Context) {
	render(c, http.StatusOK, "add_user.html", "Add user", gin.H{"Username": ""})
}

func (h *UserHandler) Add(c *gin.Context) {
	username := c.PostForm("username")

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.users.Create(ctx, username)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			render(c, http.StatusBadRequest, "add_user.html", "Add user", gin.H{
				"Username": username,
				"Error":    ve.Message,
			})
		case errors.Is(err, repository.ErrUsernameTaken):
			render(c, http.StatusConflict, "add_user.html", "Add user", gin.H{
				"Username": username,
				"Error":    fmt.Sprintf("Username %q is already taken", username),
			})
		default:
			h.log.Error("create user", zap.Error(err))
			flash(c, flashError, "Could not create the user, please try again")
			c.Redirect(http.StatusSeeOther, "/users")
		}
		return
	}

	flash(c, flashSuccess, fmt.Sprintf("User %q created", user.Username))
	c.Redirect(http.StatusSeeOther, "/users")
}

// Delete removes a user and all their movies, then always returns to the
// user list.
func (h *UserHandler) Delete(c *gin.Context) {
	defer c.Redirect(http.StatusSeeOther, "/users")

	id, ok := paramID(c)
	if !ok {
		flash(c, flashError, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "User not found")
		} else {
			h.log.Error("get user", zap.Int64("user_id", id), zap.Error(err))
			flash(c, flashError, "Could not delete the user, please try again")
		}
		return
	}

	if err := h.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			flash(c, flashError, "User not found")
		} else {
			h.log.Error("delete user", zap.Int64("user_id", id), zap.Error(err))
			flash(c, flashError, "Could not delete the user, please try again")
		}
		return
	}

	flash(c, flashSuccess, fmt.Sprintf("User %q and their movies were deleted", user.Username))
}

// paramID parses the :id route parameter.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
