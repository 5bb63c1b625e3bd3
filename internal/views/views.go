// Package views holds the server-rendered HTML pages.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var files embed.FS

// Page template names.
const (
	Lists    = "lists"
	NewList  = "new_list"
	List     = "list"
	EditList = "edit_list"
)

// Load parses every page. html/template escapes all user-supplied names.
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.tmpl")
}
