package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates
var templatesFS embed.FS

// render writes an HTML page. index.html (the login page) stands alone; every
// other page is inserted into layout.html's "content" slot.
func render(w http.ResponseWriter, name string, data map[string]interface{}) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if name == "index.html" {
		t := template.Must(template.New("").Parse(string(content)))
		if err := t.ExecuteTemplate(w, "login", data); err != nil {
			slog.Error("template execute", "template", name, "err", err)
		}
		return
	}

	layout, _ := templatesFS.ReadFile("templates/layout.html")
	t := template.Must(template.New("").Parse(string(layout)))
	t = template.Must(t.New("").Parse(string(content)))
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("template execute", "template", name, "err", err)
	}
}
