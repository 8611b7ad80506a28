package server

import (
	"net/http"
	"strings"

	"github.com/RooCodeInc/RooVersation/task"
)

// GET /api/tasks/{source}
func (s *server) tasksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	source, ok := parseTasksPath(r.URL.Path)
	if !ok || !task.ValidSource(source) {
		handleError(w, &HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Unknown task source",
		})
		return
	}

	tasks, err := s.models.Tasks.List(source)
	if err != nil {
		handleError(w, &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to list tasks",
			Err:     err,
		})
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GET /api/task/{source}/{taskId}
func (s *server) taskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	source, id, ok := parseTaskPath(r.URL.Path)
	if !ok || !task.ValidSource(source) {
		handleError(w, &HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Unknown task source",
		})
		return
	}

	conv, err := s.models.Tasks.Get(source, id)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

func parseTasksPath(path string) (string, bool) {
	source := strings.TrimSuffix(strings.TrimPrefix(path, "/api/tasks/"), "/")
	if source == "" || strings.Contains(source, "/") {
		return "", false
	}
	return source, true
}

func parseTaskPath(path string) (string, string, bool) {
	rest := strings.TrimSuffix(strings.TrimPrefix(path, "/api/task/"), "/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", false
	}
	return parts[0], parts[1], true
}
