// Package web embeds the display, admin and login pages with their assets.
package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed templates
	templates embed.FS

	//go:embed static
	static embed.FS
)

// Templates returns the page templates rooted at templates/
func Templates() fs.FS {
	return mustSub(templates, "templates")
}

// Static returns the CSS and JS served under /static/
func Static() fs.FS {
	return mustSub(static, "static")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return sub
}
