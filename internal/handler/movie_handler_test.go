package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"moviehub/internal/metadata/omdb"
	"moviehub/internal/models"
	"moviehub/internal/repository"
	"moviehub/internal/service"
)

func TestMovieHandler_AddForm(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	t.Run("FetchModeOffered", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)
		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()

		w := doGet(r, "/users/1/add_movie", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="fetch"`)
	})

	t.Run("FetchModeHiddenWithoutKey", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, false)
		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()

		w := doGet(r, "/users/1/add_movie", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), `type="radio"`)
	})

	t.Run("UnknownUserRedirects", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)
		users.On("Get", mock.Anything, int64(9)).
			Return(nil, repository.ErrNotFound).Once()

		w := doGet(r, "/users/9/add_movie", nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users", w.Header().Get("Location"))
	})
}

func TestMovieHandler_AddManual(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("AddManual", mock.Anything, int64(1), mock.MatchedBy(func(in service.MovieInput) bool {
			return in.Title == "Heat" && in.Director == "Michael Mann"
		})).Return(&models.Movie{ID: 10, UserID: 1, Title: "Heat"}, []string(nil), nil).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":     {"manual"},
			"title":    {"Heat"},
			"director": {"Michael Mann"},
			"year":     {"1995"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users/1", w.Header().Get("Location"))
		movies.AssertExpectations(t)
	})

	t.Run("ValidationRerendersForm", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("AddManual", mock.Anything, int64(1), mock.Anything).
			Return(nil, []string(nil), &service.ValidationError{Message: "Director is required"}).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":  {"manual"},
			"title": {"Heat"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Director is required")
		// Entered values survive the round trip
		assert.Contains(t, w.Body.String(), `value="Heat"`)
	})

	t.Run("WarningFlashedAfterSave", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("AddManual", mock.Anything, int64(1), mock.Anything).
			Return(&models.Movie{ID: 10, UserID: 1, Title: "Heat"},
				[]string{`Year "1005" looks implausible and was not stored`}, nil).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":     {"manual"},
			"title":    {"Heat"},
			"director": {"Michael Mann"},
			"year":     {"1005"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("ListForUser", mock.Anything, int64(1), "").
			Return([]models.Movie{{ID: 10, UserID: 1, Title: "Heat"}}, nil).Once()

		next := doGet(r, "/users/1", w.Result().Cookies())
		assert.Contains(t, next.Body.String(), "implausible")
		assert.Contains(t, next.Body.String(), "Added")
	})
}

func TestMovieHandler_AddFromLookup(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("AddFromLookup", mock.Anything, int64(1), "Heat").
			Return(&models.Movie{ID: 10, UserID: 1, Title: "Heat"}, nil).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":  {"fetch"},
			"title": {"Heat"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users/1", w.Header().Get("Location"))
	})

	t.Run("NoMatchKeepsEnteredTitle", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("AddFromLookup", mock.Anything, int64(1), "Nope").
			Return(nil, omdb.ErrNotFound).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":  {"fetch"},
			"title": {"Nope"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "no movie found")
		assert.Contains(t, w.Body.String(), `value="Nope"`)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("AddFromLookup", mock.Anything, int64(1), "Heat").
			Return(nil, &omdb.UpstreamError{Detail: "unexpected status 503"}).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":  {"fetch"},
			"title": {"Heat"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "movie database unavailable")
	})

	t.Run("FetchDisabled", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, false)

		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()

		w := doPostForm(r, "/users/1/add_movie", url.Values{
			"mode":  {"fetch"},
			"title": {"Heat"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "not configured")
		movies.AssertNotCalled(t, "AddFromLookup", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMovieHandler_Detail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(10)).Return(&models.Movie{
			ID:       10,
			UserID:   1,
			Title:    "Heat",
			Director: stringPtr("Michael Mann"),
			Poster:   stringPtr("https://img.example/heat.jpg"),
			Rating:   floatPtr(8.3),
		}, nil).Once()

		w := doGet(r, "/movie/10", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Heat")
		assert.Contains(t, w.Body.String(), "https://img.example/heat.jpg")
		assert.Contains(t, w.Body.String(), "/movie/10/update")
	})

	t.Run("NotFoundRedirects", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(99)).
			Return(nil, repository.ErrNotFound).Once()

		w := doGet(r, "/movie/99", nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users", w.Header().Get("Location"))
	})
}

func TestMovieHandler_Update(t *testing.T) {
	heat := &models.Movie{ID: 10, UserID: 1, Title: "Heat", Director: stringPtr("Michael Mann")}
	alice := &models.User{ID: 1, Username: "alice"}

	t.Run("FormPrefilled", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(10)).Return(heat, nil).Once()
		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()

		w := doGet(r, "/movie/10/update", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="Heat"`)
		assert.Contains(t, w.Body.String(), `value="Michael Mann"`)
	})

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(10)).Return(heat, nil).Once()
		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("Update", mock.Anything, int64(10), mock.MatchedBy(func(in service.MovieInput) bool {
			return in.Rating == "8.7"
		})).Return(&models.Movie{ID: 10, UserID: 1, Title: "Heat"}, []string(nil), nil).Once()

		w := doPostForm(r, "/movie/10/update", url.Values{
			"title":    {"Heat"},
			"director": {"Michael Mann"},
			"rating":   {"8.7"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/movie/10", w.Header().Get("Location"))
		movies.AssertExpectations(t)
	})

	t.Run("ValidationRerendersForm", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(10)).Return(heat, nil).Once()
		users.On("Get", mock.Anything, int64(1)).Return(alice, nil).Once()
		movies.On("Update", mock.Anything, int64(10), mock.Anything).
			Return(nil, []string(nil), &service.ValidationError{Message: "Rating must be between 0.0 and 10.0"}).Once()

		w := doPostForm(r, "/movie/10/update", url.Values{
			"title":    {"Heat"},
			"director": {"Michael Mann"},
			"rating":   {"11"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Rating must be between")
		assert.Contains(t, w.Body.String(), `value="11"`)
	})
}

func TestMovieHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(10)).
			Return(&models.Movie{ID: 10, UserID: 1, Title: "Heat"}, nil).Once()
		movies.On("Delete", mock.Anything, int64(10)).Return(nil).Once()

		w := doPostForm(r, "/movie/10/delete", nil, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users/1", w.Header().Get("Location"))
		movies.AssertExpectations(t)
	})

	t.Run("NotFoundRedirectsToUsers", func(t *testing.T) {
		users := new(MockUserService)
		movies := new(MockMovieService)
		r := setupRouter(users, movies, true)

		movies.On("Get", mock.Anything, int64(99)).
			Return(nil, repository.ErrNotFound).Once()

		w := doPostForm(r, "/movie/99/delete", nil, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users", w.Header().Get("Location"))
		movies.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
