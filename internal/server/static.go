package server

import (
	"bytes"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

type asset struct {
	data        []byte
	contentType string
}

// static serves the frontend from memory, minified once at startup.
type static struct {
	assets  map[string]asset
	modTime time.Time
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return m
}

func mediaType(name string) string {
	switch path.Ext(name) {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js", ".mjs":
		return "application/javascript"
	}
	return mime.TypeByExtension(path.Ext(name))
}

func newStatic(fsys fs.FS) (*static, error) {
	m := newMinifier()
	s := &static{assets: make(map[string]asset), modTime: time.Now()}

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		mt := mediaType(name)
		if minified, err := m.Bytes(mt, data); err == nil {
			data = minified
		}
		// files without a registered minifier are served as they are

		s.assets["/"+name] = asset{data: data, contentType: mt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(name, "/") {
		name += "index.html"
	}

	a, ok := s.assets[name]
	if !ok {
		a, ok = s.assets[name+"/index.html"]
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	if a.contentType != "" {
		w.Header().Set("Content-Type", a.contentType)
	}
	http.ServeContent(w, r, name, s.modTime, bytes.NewReader(a.data))
}
