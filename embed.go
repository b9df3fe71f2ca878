package main

import (
	"embed"
	"io/fs"
)

// The viewer page, minified by the server at startup.
//
//go:embed all:frontend
var frontendFiles embed.FS

func getFrontendFS() fs.FS {
	sub, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		// only fails if the embed pattern above changes
		panic(err)
	}
	return sub
}
