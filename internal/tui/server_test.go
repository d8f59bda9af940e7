package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hy4ri/tuidoist/internal/api"
)

// todoist is an in-memory stand-in for the Todoist API.
type todoist struct {
	mu       sync.Mutex
	projects []api.Project
	labels   []api.Label
	filters  []api.Filter
	tasks    []api.Task
	fail     map[string]int // path -> status code
	updates  []map[string]json.RawMessage
	closed   []string
	nextID   int
}

func newTodoist() *todoist {
	return &todoist{
		projects: []api.Project{
			{ID: "A", Name: "Home", Color: "green"},
			{ID: "B", Name: "Work", Color: "blue"},
		},
		labels:  []api.Label{{ID: "l1", Name: "waiting", Color: "grey"}},
		filters: []api.Filter{{ID: "f1", Name: "Waiting", Query: "@waiting", Color: "grey"}},
		tasks: []api.Task{
			{ID: "1", Content: "Write report", ProjectID: "B", Priority: 4, Due: &api.Due{Date: "2020-01-01"}},
			{ID: "2", Content: "Water plants", ProjectID: "A", Labels: []string{"waiting"}},
		},
		fail:   map[string]int{},
		nextID: 100,
	}
}

func (s *todoist) serve(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(srv.Close)
	return api.NewClientWithOptions("test-token", api.Options{BaseURL: srv.URL, RequestsPerMinute: 1000})
}

func (s *todoist) setFail(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path] = code
}

func (s *todoist) task(id string) (api.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return api.Task{}, false
}

func (s *todoist) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func (s *todoist) lastUpdate() map[string]json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		return nil
	}
	return s.updates[len(s.updates)-1]
}

func page(w http.ResponseWriter, results interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"results": results, "next_cursor": nil})
}

func (s *todoist) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code, ok := s.fail[r.URL.Path]; ok {
		http.Error(w, "boom", code)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/projects":
		page(w, s.projects)
	case path == "/labels" && r.Method == http.MethodGet:
		page(w, s.labels)
	case path == "/labels" && r.Method == http.MethodPost:
		var req api.CreateLabelRequest
		json.NewDecoder(r.Body).Decode(&req)
		s.nextID++
		label := api.Label{ID: fmt.Sprintf("l%d", s.nextID), Name: req.Name, Color: req.Color}
		s.labels = append(s.labels, label)
		json.NewEncoder(w).Encode(label)
	case path == "/sync":
		s.sync(w, r)
	case path == "/tasks":
		page(w, s.tasks)
	case path == "/tasks/filter":
		s.filter(w, r.URL.Query().Get("query"))
	case path == "/tasks/quick":
		var body struct{ Text string }
		json.NewDecoder(r.Body).Decode(&body)
		s.nextID++
		task := api.Task{ID: fmt.Sprint(s.nextID), Content: body.Text, ProjectID: "A"}
		s.tasks = append(s.tasks, task)
		json.NewEncoder(w).Encode(task)
	case strings.HasSuffix(path, "/close"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/tasks/"), "/close")
		s.closed = append(s.closed, id)
		s.remove(id)
		w.WriteHeader(http.StatusNoContent)
	case strings.HasPrefix(path, "/tasks/") && r.Method == http.MethodDelete:
		s.remove(strings.TrimPrefix(path, "/tasks/"))
		w.WriteHeader(http.StatusNoContent)
	case strings.HasPrefix(path, "/tasks/"):
		s.update(w, r, strings.TrimPrefix(path, "/tasks/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *todoist) sync(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	raw := r.PostForm.Get("commands")
	if raw == "" {
		json.NewEncoder(w).Encode(map[string]interface{}{"filters": s.filters})
		return
	}

	var cmds []struct {
		Type string `json:"type"`
		UUID string `json:"uuid"`
		Args struct {
			ID        string `json:"id"`
			ProjectID string `json:"project_id"`
		} `json:"args"`
	}
	json.Unmarshal([]byte(raw), &cmds)
	status := map[string]string{}
	for _, cmd := range cmds {
		for i := range s.tasks {
			if s.tasks[i].ID == cmd.Args.ID && cmd.Type == "item_move" {
				s.tasks[i].ProjectID = cmd.Args.ProjectID
			}
		}
		status[cmd.UUID] = "ok"
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"sync_status": status})
}

func (s *todoist) filter(w http.ResponseWriter, query string) {
	if !strings.HasPrefix(query, "@") {
		http.Error(w, "invalid filter query", http.StatusBadRequest)
		return
	}
	ids := []string{}
	for _, t := range s.tasks {
		for _, l := range t.Labels {
			if strings.EqualFold("@"+l, query) {
				ids = append(ids, t.ID)
			}
		}
	}
	page(w, ids)
}

func (s *todoist) update(w http.ResponseWriter, r *http.Request, id string) {
	var body map[string]json.RawMessage
	json.NewDecoder(r.Body).Decode(&body)
	s.updates = append(s.updates, body)

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if v, ok := body["content"]; ok {
			json.Unmarshal(v, &s.tasks[i].Content)
		}
		if v, ok := body["labels"]; ok {
			json.Unmarshal(v, &s.tasks[i].Labels)
		}
		if v, ok := body["priority"]; ok {
			json.Unmarshal(v, &s.tasks[i].Priority)
		}
		json.NewEncoder(w).Encode(s.tasks[i])
		return
	}
	http.NotFound(w, r)
}

func (s *todoist) remove(id string) {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}
