package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvyas/quotewall/internal/common"
	"github.com/cvyas/quotewall/internal/logging"
	"github.com/cvyas/quotewall/internal/server/models"
	"github.com/cvyas/quotewall/internal/server/services"
)

// fakeStore is an in-memory EntryStore for handler tests.
type fakeStore struct {
	entries map[string]models.UserEntry
	nextID  int64
	pingErr error
	failAll error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]models.UserEntry{}, nextID: 1}
}

func (f *fakeStore) Upsert(ctx context.Context, name, quote, advice string) (int64, error) {
	if f.failAll != nil {
		return 0, f.failAll
	}
	name = strings.TrimSpace(name)

	verr := &common.ValidationError{}
	if len(name) < services.NameMinLen {
		verr.Add("name", "name is required")
	}
	if len(quote) < services.QuoteMinLen {
		verr.Add("quote", "quote is too short")
	}
	if len(advice) < services.AdviceMinLen {
		verr.Add("advice", "advice is too short")
	}
	if verr.HasViolations() {
		return 0, verr
	}

	e, ok := f.entries[name]
	if !ok {
		e = models.UserEntry{ID: f.nextID, Name: name, CreatedAt: time.Now()}
		f.nextID++
	}
	e.Quote, e.Advice, e.UpdatedAt = quote, advice, time.Now()
	f.entries[name] = e
	return e.ID, nil
}

func (f *fakeStore) List(ctx context.Context, limit, offset int, search string) ([]models.UserEntry, int, error) {
	if f.failAll != nil {
		return nil, 0, f.failAll
	}
	var out []models.UserEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeStore) GetByName(ctx context.Context, name string) (*models.UserEntry, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	e, ok := f.entries[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

func (f *fakeStore) DeleteByName(ctx context.Context, name string) (bool, error) {
	if f.failAll != nil {
		return false, f.failAll
	}
	_, ok := f.entries[name]
	delete(f.entries, name)
	return ok, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func newTestServer(t *testing.T, store EntryStore) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewServer(":0", store, logger, "test-secret")
	return s, s.Router()
}

// postForm submits a browser form with a valid CSRF cookie and field.
func postForm(t *testing.T, s *Server, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	token, err := s.newCSRFToken()
	require.NoError(t, err)
	form.Set("csrf_token", token)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookie, Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitForm_SuccessRedirectsToListing(t *testing.T) {
	store := newFakeStore()
	s, r := newTestServer(t, store)

	w := postForm(t, s, r, "/", url.Values{
		"username": {"ada"},
		"quote":    {"stay curious"},
		"advice":   {"read the manual"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/output?notice=")
	assert.Contains(t, store.entries, "ada")
}

func TestSubmitForm_ValidationErrorsRenderInline(t *testing.T) {
	s, r := newTestServer(t, newFakeStore())

	w := postForm(t, s, r, "/", url.Values{
		"username": {""},
		"quote":    {"hi"},
		"advice":   {"ok"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "name is required")
	assert.Contains(t, body, "quote is too short")
	assert.Contains(t, body, "advice is too short")
}

func TestSubmitForm_StorageErrorShowsGenericNotice(t *testing.T) {
	store := newFakeStore()
	store.failAll = errors.New("pq: SSLv3 connection dropped mid-handshake")
	s, r := newTestServer(t, store)

	w := postForm(t, s, r, "/", url.Values{
		"username": {"ada"},
		"quote":    {"stay curious"},
		"advice":   {"read the manual"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred while saving your data")
	assert.NotContains(t, w.Body.String(), "SSLv3", "raw database error text must never reach the user")
}

func TestSubmitForm_MissingCSRFTokenIsForbidden(t *testing.T) {
	_, r := newTestServer(t, newFakeStore())

	form := url.Values{"username": {"ada"}, "quote": {"stay curious"}, "advice": {"read more"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShowForm_SetsCSRFCookie(t *testing.T) {
	_, r := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == csrfCookie && ck.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "form page must set the csrf cookie")
}

func TestListEntries_RendersEntries(t *testing.T) {
	store := newFakeStore()
	_, err := store.Upsert(context.Background(), "ada", "stay curious", "read the manual")
	require.NoError(t, err)
	_, r := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/output", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada")
	assert.Contains(t, w.Body.String(), "stay curious")
}

func TestUserProfile_NotFoundRedirects(t *testing.T) {
	_, r := newTestServer(t, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/user/ghost", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/output?error=")
}

func TestDeleteEntry_RedirectsWithOutcome(t *testing.T) {
	store := newFakeStore()
	_, err := store.Upsert(context.Background(), "ada", "stay curious", "read the manual")
	require.NoError(t, err)
	s, r := newTestServer(t, store)

	w := postForm(t, s, r, "/delete/ada", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=")

	w = postForm(t, s, r, "/delete/ada", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=")
}

func TestHealth(t *testing.T) {
	store := newFakeStore()
	_, r := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	store.pingErr = errors.New("backend unreachable")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
	assert.NotContains(t, w.Body.String(), "backend unreachable")
}

func TestAPIListUsers_ReturnsPagination(t *testing.T) {
	store := newFakeStore()
	_, err := store.Upsert(context.Background(), "ada", "stay curious", "read the manual")
	require.NoError(t, err)
	_, r := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/users?page=1&per_page=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Users      []userJSON `json:"users"`
		Pagination struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
			Total   int `json:"total"`
			Pages   int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "ada", body.Users[0].Name)
	assert.Equal(t, 1, body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.Pages)
}

func TestAPIListUsers_OversizedPerPageStillReachesEveryRow(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 120; i++ {
		_, err := store.Upsert(context.Background(),
			"user-"+strconv.Itoa(i), "quote number "+strconv.Itoa(i), "advice number "+strconv.Itoa(i))
		require.NoError(t, err)
	}
	_, r := newTestServer(t, store)

	// per_page above the cap must clamp before the offset is computed,
	// or page 2 would start past row 120 and come back empty.
	req := httptest.NewRequest(http.MethodGet, "/api/users?page=2&per_page=150", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Users      []userJSON `json:"users"`
		Pagination struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
			Total   int `json:"total"`
			Pages   int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 100, body.Pagination.PerPage)
	assert.Equal(t, 120, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.Pages)
	assert.Len(t, body.Users, 20)
}

func TestAPIGetUser(t *testing.T) {
	store := newFakeStore()
	_, err := store.Upsert(context.Background(), "ada", "stay curious", "read the manual")
	require.NoError(t, err)
	_, r := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/users/ada", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/ghost", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIDeleteUser_NoCSRFRequired(t *testing.T) {
	store := newFakeStore()
	_, err := store.Upsert(context.Background(), "ada", "stay curious", "read the manual")
	require.NoError(t, err)
	_, r := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/ada", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
