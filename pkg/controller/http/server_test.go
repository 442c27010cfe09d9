package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/mateh-lab/taskcast/pkg/controller/http"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/repository/memory"
	"github.com/mateh-lab/taskcast/pkg/usecase"
)

func seedDirectory(t *testing.T, repo interfaces.Repository) {
	t.Helper()
	ctx := context.Background()

	units := []*model.OrgUnit{
		{ID: "hq", Name: "Headquarters"},
		{ID: "north", Name: "North Region", ParentID: "hq"},
	}
	for _, u := range units {
		gt.NoError(t, repo.Unit().Put(ctx, u)).Required()
	}

	members := []*model.Member{
		{ID: "admin-1", Name: "Dana", Role: types.RoleAdmin, UnitID: "hq"},
		{ID: "manager-north", Name: "Noa", Role: types.RoleManager, UnitID: "north"},
		{ID: "activist-1", Name: "Lior", Role: types.RoleActivist, UnitID: "north"},
		{ID: "activist-2", Name: "Gal", Role: types.RoleActivist, UnitID: "north"},
	}
	for _, m := range members {
		gt.NoError(t, repo.Member().Put(ctx, m)).Required()
	}
}

func newTestServer(t *testing.T, opts ...httpctrl.Options) *httpctrl.Server {
	t.Helper()
	repo := memory.New()
	seedDirectory(t, repo)
	uc := usecase.New(repo)
	return httpctrl.New(uc, opts...)
}

// login performs a cookie login and returns the session cookies for
// reuse on later requests.
func login(t *testing.T, srv *httpctrl.Server, memberID string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{"member_id": memberID})
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	cookies := rec.Result().Cookies()
	gt.Array(t, cookies).Length(2)
	return cookies
}

func doJSON(t *testing.T, srv *httpctrl.Server, method, path string, cookies []*http.Cookie, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		gt.NoError(t, err).Required()
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	t.Run("login sets the cookie pair and me resolves it", func(t *testing.T) {
		cookies := login(t, srv, "manager-north")

		names := map[string]bool{}
		for _, c := range cookies {
			names[c.Name] = true
			gt.Bool(t, c.HttpOnly).True()
		}
		gt.Bool(t, names["session_id"]).True()
		gt.Bool(t, names["session_secret"]).True()

		rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", cookies, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var me struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&me)).Required()
		gt.Value(t, me.ID).Equal("manager-north")
		gt.Value(t, me.Role).Equal("manager")
	})

	t.Run("unknown member cannot log in", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", nil,
			map[string]string{"member_id": "ghost"})
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("protected routes require a session", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/tasks/inbox", nil, nil)
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		cookies := login(t, srv, "manager-north")

		rec := doJSON(t, srv, http.MethodPost, "/api/auth/logout", cookies, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doJSON(t, srv, http.MethodGet, "/api/auth/me", cookies, nil)
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

func TestTaskEndpoints(t *testing.T) {
	srv := newTestServer(t)
	manager := login(t, srv, "manager-north")
	activist := login(t, srv, "activist-1")

	t.Run("preview reports the resolved audience", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/tasks/preview", manager,
			map[string]any{"target_mode": "all"})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Count      int      `json:"count"`
			Recipients []string `json:"recipients"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&resp)).Required()
		gt.Value(t, resp.Count).Equal(2)
	})

	t.Run("dispatch, read and retract round trip", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", manager,
			map[string]any{"body": "knock every door on Herzl street", "target_mode": "all"})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var dispatched struct {
			Task struct {
				ID int64 `json:"id"`
			} `json:"task"`
			RecipientsAffected int `json:"recipients_affected"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&dispatched)).Required()
		gt.Value(t, dispatched.RecipientsAffected).Equal(2)
		taskPath := "/api/tasks/" + strconv.FormatInt(dispatched.Task.ID, 10)

		rec = doJSON(t, srv, http.MethodGet, "/api/tasks/unread-count", activist, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		var badge struct {
			Count int `json:"count"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&badge)).Required()
		gt.Value(t, badge.Count).Equal(1)

		rec = doJSON(t, srv, http.MethodPost, taskPath+"/read", activist, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		// An acknowledgement blocks retraction
		rec = doJSON(t, srv, http.MethodDelete, taskPath, manager, nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("retraction within the window succeeds", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", manager,
			map[string]any{"body": "put up posters", "target_mode": "all"})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var dispatched struct {
			Task struct {
				ID int64 `json:"id"`
			} `json:"task"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&dispatched)).Required()

		rec = doJSON(t, srv, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(dispatched.Task.ID, 10), manager, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var retracted struct {
			RecipientsAffected int `json:"recipients_affected"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&retracted)).Required()
		gt.Value(t, retracted.RecipientsAffected).Equal(2)
	})

	t.Run("activists cannot dispatch", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/tasks", activist,
			map[string]any{"body": "nope", "target_mode": "all"})
		gt.Value(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("malformed task ID is a bad request", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/tasks/abc", activist, nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown task is not found", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/tasks/999999", activist, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("bulk archive without a filter is rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/tasks/archive", activist,
			map[string]any{})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("members listing is available to any session", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/members", activist, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Members []struct {
				ID string `json:"id"`
			} `json:"members"`
		}
		gt.NoError(t, json.NewDecoder(rec.Body).Decode(&resp)).Required()
		gt.Array(t, resp.Members).Length(4)
	})
}

func TestNoAuthnMode(t *testing.T) {
	repo := memory.New()
	seedDirectory(t, repo)
	uc := usecase.New(repo,
		usecase.WithAuth(usecase.NewNoAuthnUseCase(repo, "manager-north")))
	srv := httpctrl.New(uc)

	rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", nil, nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var me struct {
		ID string `json:"id"`
	}
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&me)).Required()
	gt.Value(t, me.ID).Equal("manager-north")

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks", nil,
		map[string]any{"body": "call the phone bank list", "target_mode": "all"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
}

func TestDispatchRateLimit(t *testing.T) {
	srv := newTestServer(t, httpctrl.WithDispatchRateLimit(1, 1))
	manager := login(t, srv, "manager-north")

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", manager,
		map[string]any{"body": "first wave", "target_mode": "all"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks", manager,
		map[string]any{"body": "second wave", "target_mode": "all"})
	gt.Value(t, rec.Code).Equal(http.StatusTooManyRequests)
}
