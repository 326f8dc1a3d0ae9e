package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templateFiles returns the embedded templates with the templates directory as root,
// so template names match the paths handlers render ("admin/dashboard", "layouts/base").
func templateFiles() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// only fails for an invalid directory name
		panic(err)
	}

	return sub
}
