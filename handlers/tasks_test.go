package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/backend/go-services/internal/tasks"
)

func TestTasks_RequireAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTask_RequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/tasks", "token-u1", map[string]string{"description": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var got map[string]interface{}
	decodeJSON(t, w, &got)
	require.Equal(t, "Title is required", got["error"])
}

func TestListTasks_FilteredByRole(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tasks", "token-u1", map[string]string{"title": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	time.Sleep(5 * time.Millisecond)
	w = env.do(t, http.MethodPost, "/api/tasks", "token-u1", map[string]string{"title": "second"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, "/api/tasks", "token-u2", map[string]string{"title": "other"})
	require.Equal(t, http.StatusCreated, w.Code)

	// u1 sees only their two tasks, newest first
	var own []tasks.Task
	w = env.do(t, http.MethodGet, "/api/tasks", "token-u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &own)
	require.Len(t, own, 2)
	require.Equal(t, "second", own[0].Title)
	require.Equal(t, "first", own[1].Title)

	// admin sees everything
	var all []tasks.Task
	w = env.do(t, http.MethodGet, "/api/tasks", "token-admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &all)
	require.Len(t, all, 3)
}

func TestUpdateTask_Ownership(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tasks", "token-u1", map[string]string{"title": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created tasks.Task
	decodeJSON(t, w, &created)

	// another user is denied
	w = env.do(t, http.MethodPut, "/api/tasks/"+created.ID, "token-u2", map[string]interface{}{"completed": true})
	require.Equal(t, http.StatusForbidden, w.Code)

	// owner may update
	w = env.do(t, http.MethodPut, "/api/tasks/"+created.ID, "token-u1", map[string]interface{}{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	var updated tasks.Task
	decodeJSON(t, w, &updated)
	require.True(t, updated.Completed)
	require.Equal(t, "mine", updated.Title)

	// admin may update anyone's task
	w = env.do(t, http.MethodPut, "/api/tasks/"+created.ID, "token-admin", map[string]interface{}{"title": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	// unknown task
	w = env.do(t, http.MethodPut, "/api/tasks/nope", "token-u1", map[string]interface{}{"completed": true})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tasks", "token-u1", map[string]string{"title": "doomed"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created tasks.Task
	decodeJSON(t, w, &created)

	// plain users may not delete, not even their own tasks
	w = env.do(t, http.MethodDelete, "/api/tasks/"+created.ID, "token-u1", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	var got map[string]interface{}
	decodeJSON(t, w, &got)
	require.Equal(t, "Admin access required", got["error"])

	w = env.do(t, http.MethodDelete, "/api/tasks/"+created.ID, "token-admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/tasks/"+created.ID, "token-admin", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
