// Package templates holds the server-rendered pages. Components are written
// in .templ files; the *_templ.go files are generated with `templ generate`.
package templates

import (
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/MasterList/internal/core"
)

// InputRow is one configured input on the dashboard.
type InputRow struct {
	Label string
	Path  string
}

func runURL(id string) templ.SafeURL {
	return templ.URL("/runs/" + id)
}

func outputURL(id string) templ.SafeURL {
	return templ.URL("/api/runs/" + id + "/output")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatDuration(run core.Run) string {
	return run.Duration().Round(time.Millisecond).String()
}
