// Package reqrestest runs an in-process fake of the remote user directory
// (login, paginated users, get/update/delete by id) for tests.
package reqrestest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

const (
	DemoEmail    = "eve.holt@reqres.in"
	DemoPassword = "cityslicka"
	DemoToken    = "QpwL5tke4Pnpja7X4"
	PerPage      = 6
)

// Request is a captured inbound request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Server is the fake directory. All exported methods are safe for
// concurrent use.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     []models.User
	passwords map[string]string
	issue     string
	valid     map[string]bool
	requests  []Request
	gate      chan struct{}
}

// New starts a server seeded with twelve users and the demo account, and
// closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		passwords: map[string]string{DemoEmail: DemoPassword},
		issue:     DemoToken,
		valid:     map[string]bool{},
	}
	for i := 1; i <= 12; i++ {
		s.users = append(s.users, models.User{
			ID:        i,
			FirstName: "First" + strconv.Itoa(i),
			LastName:  "Last" + strconv.Itoa(i),
			Email:     "user" + strconv.Itoa(i) + "@reqres.in",
			Avatar:    "https://reqres.in/img/faces/" + strconv.Itoa(i) + "-image.jpg",
		})
	}
	s.users[1] = models.User{ID: 2, FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in", Avatar: "https://reqres.in/img/faces/2-image.jpg"}
	s.users[3] = models.User{ID: 4, FirstName: "Eve", LastName: "Holt", Email: "eve.holt@reqres.in", Avatar: "https://reqres.in/img/faces/4-image.jpg"}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.capture)
	r.Post("/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Get("/users", s.handleList)
		r.Get("/users/{id}", s.handleGet)
		r.Put("/users/{id}", s.handleUpdate)
		r.Delete("/users/{id}", s.handleDelete)
	})
	return r
}

// SetIssuedToken changes the token handed out by subsequent logins.
func (s *Server) SetIssuedToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issue = token
}

// Authorize marks token as valid without a login exchange.
func (s *Server) Authorize(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid[token] = true
}

// RevokeAll invalidates every issued token; later calls get 401.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = map[string]bool{}
}

// Hold makes authenticated handlers block until the returned release func
// is called. Used to keep several calls in flight at once.
func (s *Server) Hold() (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Requests returns a copy of every captured request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request matching method and path prefix.
func (s *Server) LastRequest(method, pathPrefix string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && strings.HasPrefix(reqs[i].Path, pathPrefix) {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (s *Server) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		gate := s.gate
		s.mu.Unlock()
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		ok := token != "" && s.valid[token]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing or invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed body"})
		return
	}
	if in.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing email or username"})
		return
	}
	if in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing password"})
		return
	}

	s.mu.Lock()
	want, known := s.passwords[in.Email]
	token := s.issue
	if known && want == in.Password && token != "" {
		s.valid[token] = true
	}
	s.mu.Unlock()

	if !known || want != in.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user not found"})
		return
	}
	// an empty issued token models a 2xx payload without a credential
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
			return
		}
		page = n
	}

	s.mu.Lock()
	total := len(s.users)
	data := []models.User{}
	start := (page - 1) * PerPage
	if start >= 0 && start < total {
		end := min(start+PerPage, total)
		data = append(data, s.users[start:end]...)
	}
	s.mu.Unlock()

	totalPages := (total + PerPage - 1) / PerPage
	if totalPages == 0 {
		totalPages = 1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":        page,
		"per_page":    PerPage,
		"total":       total,
		"total_pages": totalPages,
		"data":        data,
	})
}

func (s *Server) findUser(id int) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	u, ok := s.findUser(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": u})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed body"})
		return
	}
	if email, _ := in["email"].(string); email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}
	in["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err == nil {
		s.mu.Lock()
		for i, u := range s.users {
			if u.ID == id {
				s.users = append(s.users[:i], s.users[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
