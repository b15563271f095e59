package adaptor

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"
	"time"

	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// Page is the data every template receives. Data holds the page specific
// view model.
type Page struct {
	Title     string
	Username  string
	RequestID string
	Data      any
}

type errorData struct {
	Status  int
	Message string
}

// Renderer executes pages parsed once from the embedded templates. Each page
// is its own template set layered over base.html.
type Renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	"subtract": func(a, b int) int {
		return a - b
	},
	"join": strings.Join,
	"date": func(t time.Time) string {
		return t.Format("2 Jan 2006 15:04")
	},
}

func NewRenderer(log *zap.Logger) (*Renderer, error) {
	files, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, f := range files {
		name := f.Name()
		if name == path.Base(baseTemplate) {
			continue
		}
		tmpl, err := template.New(path.Base(baseTemplate)).Funcs(funcMap).
			ParseFS(templateFS, baseTemplate, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return &Renderer{
		pages: pages,
		log:   log.With(zap.String("component", "renderer")),
	}, nil
}

// Render writes page with status. Output is buffered so a template failure
// still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.log.Error("Unknown template", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username, _ := utils.GetUsernameFromContext(r.Context())
	p := Page{
		Title:     title,
		Username:  username,
		RequestID: utils.GetRequestIDFromContext(r.Context()),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		rd.log.Error("Failed to execute template",
			zap.Error(err),
			zap.String("page", page),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *Renderer) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.Render(w, r, status, "error", http.StatusText(status), errorData{Status: status, Message: message})
}
