package ui

import (
	"bytes"
	"embed"
	"html/template"

	"job-board/internal/domain/job"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	DefaultTitle      = "Job Board"
	DefaultSocketPath = "/ws/search"
)

type Renderer struct {
	tmpl       *template.Template
	title      string
	socketPath string
}

type pageData struct {
	Title      string
	SocketPath string
	View       View
	Validation View
}

func NewRenderer(title, socketPath string) (*Renderer, error) {
	if title == "" {
		title = DefaultTitle
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	tmpl, err := template.New("ui").Funcs(template.FuncMap{
		"postedDate": postedDate,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, title: title, socketPath: socketPath}, nil
}

func (r *Renderer) Page(v View) ([]byte, error) {
	return r.execute("page", pageData{
		Title:      r.title,
		SocketPath: r.socketPath,
		View:       v,
		Validation: View{State: StateError, Message: ValidationMessage},
	})
}

// Results renders only the #results section for in-place replacement.
func (r *Renderer) Results(v View) ([]byte, error) {
	return r.execute("results", v)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func postedDate(j job.Job) string {
	if t, ok := j.PostedAt(); ok {
		return t.Format("Jan 2, 2006")
	}
	return j.PostedDate
}
