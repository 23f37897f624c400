package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/ashureev/rps-labs/internal/view"
)

var templates = template.Must(template.ParseFS(assets, "templates/*.html"))

// RenderPage writes the full game page.
func RenderPage(w http.ResponseWriter, p view.Page) error {
	return render(w, "page.html", p)
}

// RenderGame writes the game fragment the page script swaps in on updates.
func RenderGame(w http.ResponseWriter, p view.Page) error {
	return render(w, "game.html", p)
}

func render(w http.ResponseWriter, name string, p view.Page) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
