package main

import (
	"database/sql"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"dinobot/internal/database"
)

//go:embed templates/*.html
var templatesFS embed.FS

const pageSize = 50

type viewer struct {
	db   *sql.DB
	tmpl *template.Template
}

type sessionsPage struct {
	Sessions []database.SessionRow
	Limit    int
}

type sessionPage struct {
	Session database.SessionRow
	Actions []database.ActionRow
}

func newViewer(db *sql.DB) (*viewer, error) {
	tmpl, err := template.New("layout").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"clock":      func(t time.Time) string { return t.Format("15:04:05.000") },
		"duration":   func(d time.Duration) string { return d.Round(time.Second).String() },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &viewer{db: db, tmpl: tmpl}, nil
}

func (v *viewer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", v.handleSessions)
	mux.HandleFunc("GET /session/{id}", v.handleSession)
	return mux
}

func (v *viewer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	limit := pageSize
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	sessions, err := database.ListSessions(v.db, limit)
	if err != nil {
		v.fail(w, err)
		return
	}
	v.render(w, "sessions.html", sessionsPage{Sessions: sessions, Limit: limit})
}

func (v *viewer) handleSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	s, err := database.GetSession(v.db, id)
	if errors.Is(err, database.ErrNoSession) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		v.fail(w, err)
		return
	}
	actions, err := database.SessionActions(v.db, id)
	if err != nil {
		v.fail(w, err)
		return
	}
	v.render(w, "session.html", sessionPage{Session: s, Actions: actions})
}

func (v *viewer) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := v.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Ошибка рендеринга шаблона %s: %v", name, err)
	}
}

func (v *viewer) fail(w http.ResponseWriter, err error) {
	log.Printf("Ошибка запроса к базе данных: %v", err)
	http.Error(w, "database error", http.StatusInternalServerError)
}
