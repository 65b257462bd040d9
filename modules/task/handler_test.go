package task_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdo/taskdo/modules/task"
	"github.com/taskdo/taskdo/pkg/authn"
	"github.com/taskdo/taskdo/pkg/session"
)

type handlerFixture struct {
	router   http.Handler
	svc      *task.Service
	sessions *session.Manager
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	svc := task.NewService(newFakeStore())
	sessions := session.New()
	h := task.NewHandler(svc)

	return &handlerFixture{
		router:   h.Router(sessions, "/login"),
		svc:      svc,
		sessions: sessions,
	}
}

// loginAs creates an authenticated session and returns its cookies.
func (f *handlerFixture) loginAs(t *testing.T, accountID int64) []*http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	err := f.sessions.Authenticate(context.Background(), rec, r, authn.Principal{
		AccountID:         accountID,
		AccountIdentifier: "acc-" + strconv.FormatInt(accountID, 10) + "@x.com",
		Roles:             []string{authn.RoleUser},
	})
	require.NoError(t, err)
	return rec.Result().Cookies()
}

func (f *handlerFixture) do(t *testing.T, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)
	return rec
}

func TestHandler_RequiresAuth(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	rec := f.do(t, http.MethodGet, "/", nil, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHandler_CreateAndList(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	cookies := f.loginAs(t, 1)

	rec := f.do(t, http.MethodPost, "/", url.Values{"title": {"write report"}}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := f.do(t, http.MethodGet, "/", nil, cookies)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "write report")

	list := f.do(t, http.MethodGet, "/list", nil, cookies)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"title":"write report"`)
}

func TestHandler_OwnershipBoundary(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	owner := f.loginAs(t, 1)
	intruder := f.loginAs(t, 2)

	created, err := f.svc.Create(context.Background(), 1, "private")
	require.NoError(t, err)
	id := strconv.FormatInt(created.ID, 10)

	t.Run("intruder cannot see it", func(t *testing.T) {
		page := f.do(t, http.MethodGet, "/", nil, intruder)
		assert.NotContains(t, page.Body.String(), "private")
	})

	t.Run("intruder gets not found on mutation", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/"+id+"/delete", url.Values{}, intruder)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner can still mutate", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/"+id+"/toggle", url.Values{}, owner)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestHandler_Validation(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t)
	cookies := f.loginAs(t, 1)

	t.Run("empty title", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/", url.Values{"title": {"  "}}, cookies)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/abc/toggle", url.Values{}, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing task", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/999/toggle", url.Values{}, cookies)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
