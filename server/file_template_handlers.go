package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"containsID": func(ids []int64, id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	},
}

// ParsePage parses a layout together with a page template from the embedded
// filesystem. The page file defines the "content" block the layout includes.
func ParsePage(layout, page string) (*template.Template, error) {
	return template.New(layout).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layout, page)
}

// renderPage executes a previously parsed layout/page pair.
func (s *Server) renderPage(w http.ResponseWriter, tmpl *template.Template, layout string, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.ExecuteTemplate(w, layout, data); err != nil {
		log.Err(err).Str("layout", layout).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
