package tasktransport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authservice"
	"github.com/laxuman02230135/task-management/authsvc/pkg/authtransport"
	"github.com/laxuman02230135/task-management/tasksvc"
	taskgorm "github.com/laxuman02230135/task-management/tasksvc/db/gorm"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/taskendpoint"
	"github.com/laxuman02230135/task-management/tasksvc/pkg/taskservice"
	"github.com/laxuman02230135/task-management/usersvc"
	usergorm "github.com/laxuman02230135/task-management/usersvc/db/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	handler http.Handler
	alice   *http.Cookie
	bob     *http.Cookie
	aliceID uint64
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := stdgorm.Open(sqlite.Open(":memory:"), &stdgorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{}))

	users := usergorm.NewUserRepository(db)
	tk := authservice.NewTokenizer("secret", time.Hour)
	codec := authtransport.NewCookieCodec([]byte("hash-key"), []byte("a-lots-of-secret"), time.Hour, false)
	sessions := authservice.NewResolver(tk, users, log.NewNopLogger())

	cookieFor := func(email string) (*http.Cookie, uint64) {
		u, err := users.Create(context.Background(), usersvc.User{Name: email, Email: email, PasswordHash: "x"})
		require.NoError(t, err)
		token, expiry, err := tk.Generate(u.ID)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, codec.SetCookie(rec, authservice.Credential{Token: token, ExpiresAt: expiry}))
		return rec.Result().Cookies()[0], u.ID
	}

	alice, aliceID := cookieFor("alice@example.com")
	bob, _ := cookieFor("bob@example.com")

	svc := taskservice.NewBasicService(taskgorm.NewTaskRepository(db))
	return fixture{
		handler: NewHTTPHandler(taskendpoint.New(svc, log.NewNopLogger()), codec, sessions, log.NewNopLogger()),
		alice:   alice,
		bob:     bob,
		aliceID: aliceID,
	}
}

func (f fixture) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) tasksvc.Task {
	t.Helper()

	var body struct {
		Task tasksvc.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Task
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/api/tasks", `{"title":"Buy milk","userId":999}`, f.alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	task := decodeTask(t, rec)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, f.aliceID, task.UserID)

	rec = f.do("GET", "/api/tasks", "", f.alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Tasks []tasksvc.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, task.ID, list.Tasks[0].ID)

	rec = f.do("GET", fmt.Sprintf("/api/tasks/%d", task.ID), "", f.alice)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeTask(t, rec)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, f.aliceID, got.UserID)
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/api/tasks", `{"title":"   "}`, f.alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"title is required","field":"title"}`, rec.Body.String())
}

func TestEmptyListIsArray(t *testing.T) {
	f := newFixture(t)

	rec := f.do("GET", "/api/tasks", "", f.bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":[]}`, rec.Body.String())
}

func TestUnauthenticated(t *testing.T) {
	f := newFixture(t)
	forged := &http.Cookie{Name: f.alice.Name, Value: "forged" + f.alice.Value}

	for _, cookie := range []*http.Cookie{nil, forged} {
		rec := f.do("POST", "/api/tasks", `{"title":"x"}`, cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())

		rec = f.do("GET", "/api/tasks", "", cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = f.do("GET", "/api/tasks/1", "", cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestToggleAndDelete(t *testing.T) {
	f := newFixture(t)
	task := decodeTask(t, f.do("POST", "/api/tasks", `{"title":"Buy milk"}`, f.alice))
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	rec := f.do("PATCH", path, `{"completed":true}`, f.alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeTask(t, rec).Completed)

	rec = f.do("PATCH", path, `{"completed":false}`, f.alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeTask(t, rec).Completed)

	rec = f.do("PATCH", path, `{}`, f.alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do("DELETE", path, "", f.alice)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = f.do("DELETE", path, "", f.alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOtherUsersTaskIsNotFound(t *testing.T) {
	f := newFixture(t)
	task := decodeTask(t, f.do("POST", "/api/tasks", `{"title":"private"}`, f.alice))
	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	missing := "/api/tasks/987654"

	for _, p := range []string{path, missing} {
		rec := f.do("GET", p, "", f.bob)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

		rec = f.do("PATCH", p, `{"completed":true}`, f.bob)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

		rec = f.do("DELETE", p, "", f.bob)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "private")
	}

	rec := f.do("PATCH", "/api/tasks/99999999999999999999999", `{"completed":true}`, f.alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do("PATCH", path, `{"completed":true}`, f.alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeTask(t, rec).Completed)
}
