package api

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/star/neodash/internal/asteroids"
	"github.com/star/neodash/internal/table"
)

// dashboardPage is the template data for dashboard.html.
type dashboardPage struct {
	Lang   string
	Date   string
	Today  string
	Loaded bool
	Count  int
	Error  string
	Table  table.View
}

// dashboard renders the asteroid table for GET /. Nothing is fetched until
// the request names a date.
type dashboard struct {
	svc         *asteroids.Service
	tmpl        *template.Template
	formatter   *table.Formatter
	defaultDate string
	now         func() time.Time
	logger      *slog.Logger
}

func (d *dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := sortState(q.Get("sort"), q.Get("order"))

	page := dashboardPage{
		Lang:  d.formatter.Locale(),
		Date:  d.defaultDate,
		Today: d.now().UTC().Format(time.DateOnly),
		Table: table.View{State: state},
	}

	status := http.StatusOK
	if q.Has("date") {
		page.Date = q.Get("date")
		feed, err := d.svc.Lookup(r.Context(), page.Date)
		if err != nil {
			status, page.Error = asteroids.StatusFor(err)
		} else {
			page.Loaded = true
			page.Count = feed.Count
			page.Table = table.Build(feed.Asteroids, state, d.formatter)
		}
	}

	// Render fully before writing so a template failure can still become a 500.
	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, page); err != nil {
		d.logger.Error("render dashboard", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// sortState parses the sort query parameters, falling back to the default
// state for anything unrecognized.
func sortState(key, order string) table.State {
	state := table.DefaultState()
	if k, err := table.ParseSortKey(key); err == nil {
		state.Key = k
	}
	if o, err := table.ParseSortOrder(order); err == nil {
		state.Order = o
	}
	return state
}
