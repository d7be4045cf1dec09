package api

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Masterminds/sprig"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("grip").Funcs(sprig.HtmlFuncMap()).ParseFS(templateFS, "templates/*.html")
}

func staticHandler() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// render executes into a buffer first so that a template failure still produces a clean 500
func (rtr *Routing) render(w http.ResponseWriter, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := rtr.templates.ExecuteTemplate(&buf, name, data); err != nil {
		rtr.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
