// Package template adapts stdlib text/template into kumeoc's Template
// Engine Adapter (spec §4.6): a bundle is a directory of ".tmpl" files, one
// per output file, each rendered independently against the same context
// object and sharing the fixed FuncMap. The shipped defaults are read from
// an embedded io/fs.FS (LoadBundleFS); an override templates root is read
// through github.com/viant/afs (LoadBundleURL), so it can be a local path
// or any afs-backed URL, mirroring the teacher's only real file-I/O
// abstraction use (inspector/repository/detector.go's afs.New()+DownloadWithURL).
package template

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Bundle is a parsed, ready-to-render template directory: relative output
// path (".tmpl" suffix stripped) → parsed template.
type Bundle struct {
	Name  string
	Files map[string]*template.Template
}

// Render executes every file in the bundle against ctx and returns the
// rendered bytes keyed by the bundle-relative output path. The map itself
// has no order; callers that need deterministic iteration sort the keys.
func (b *Bundle) Render(ctx interface{}) (map[string][]byte, error) {
	out := make(map[string][]byte, len(b.Files))
	for relPath, tmpl := range b.Files {
		var buf strings.Builder
		if err := tmpl.Execute(&buf, ctx); err != nil {
			return nil, fmt.Errorf("%s: E-GEN-TMPL-RENDER: render %s: %w", b.Name, relPath, err)
		}
		out[relPath] = []byte(buf.String())
	}
	return out, nil
}

// Engine loads template bundles from either an embedded io/fs.FS (the
// shipped defaults in templates/) or an afs-backed URL (a
// user-supplied `--templates` override root).
type Engine struct {
	fs afs.Service
}

// NewEngine constructs an Engine backed by afs.New(), matching the
// teacher's afs.Service field (analyzer/analyzer.go, inspector/coder.go).
func NewEngine() *Engine {
	return &Engine{fs: afs.New()}
}

// LoadBundleFS loads every "*.tmpl" file under prefix in an embedded
// filesystem (used for the default bundles compiled into the binary via
// go:embed in templates/).
func (e *Engine) LoadBundleFS(bundleFS fs.FS, name, prefix string) (*Bundle, error) {
	b := &Bundle{Name: name, Files: map[string]*template.Template{}}
	err := fs.WalkDir(bundleFS, prefix, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".tmpl") {
			return nil
		}
		content, err := fs.ReadFile(bundleFS, p)
		if err != nil {
			return fmt.Errorf("E-GEN-TMPL-MISSING: read %s: %w", p, err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/")
		rel = strings.TrimSuffix(rel, ".tmpl")
		tmpl, err := template.New(rel).Funcs(FuncMap).Parse(string(content))
		if err != nil {
			return fmt.Errorf("E-GEN-TMPL-RENDER: parse %s: %w", p, err)
		}
		b.Files[rel] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// LoadBundleURL loads a bundle from an afs-backed URL (local path, S3,
// etc.), for a user-supplied template-root override.
func (e *Engine) LoadBundleURL(ctx context.Context, name, baseURL string) (*Bundle, error) {
	b := &Bundle{Name: name, Files: map[string]*template.Template{}}
	objects, err := e.fs.List(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("E-GEN-TMPL-MISSING: list %s: %w", baseURL, err)
	}
	if err := e.collect(ctx, baseURL, objects, baseURL, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (e *Engine) collect(ctx context.Context, root string, objects []storage.Object, dirURL string, b *Bundle) error {
	for _, o := range objects {
		if o.IsDir() {
			children, err := e.fs.List(ctx, o.URL())
			if err != nil {
				return fmt.Errorf("E-GEN-TMPL-MISSING: list %s: %w", o.URL(), err)
			}
			if err := e.collect(ctx, root, children, o.URL(), b); err != nil {
				return err
			}
			continue
		}
		if !strings.HasSuffix(o.Name(), ".tmpl") {
			continue
		}
		content, err := e.fs.DownloadWithURL(ctx, o.URL())
		if err != nil {
			return fmt.Errorf("E-GEN-TMPL-MISSING: download %s: %w", o.URL(), err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(o.URL(), root), "/")
		rel = strings.TrimSuffix(rel, ".tmpl")
		rel = path.Clean(rel)
		tmpl, err := template.New(rel).Funcs(FuncMap).Parse(string(content))
		if err != nil {
			return fmt.Errorf("E-GEN-TMPL-RENDER: parse %s: %w", o.URL(), err)
		}
		b.Files[rel] = tmpl
	}
	return nil
}
