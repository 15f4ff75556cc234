package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/viant/afs"
)

// Writer serializes a Tree to disk atomically: each file is written to a
// sibling "<name>.kumeoc-tmp-<n>" path and then renamed into place, so a
// reader never observes a partially-written file (spec §4.7). Grounded on
// the teacher's only real file-I/O abstraction use
// (inspector/repository/detector.go's afs.New()+DownloadWithURL, generalized
// here to upload+move).
type Writer struct {
	fs afs.Service
}

// NewWriter constructs a Writer backed by afs.New().
func NewWriter() *Writer {
	return &Writer{fs: afs.New()}
}

// Write serializes every file in t under baseURL. On the first failure it
// stops and returns a single E-IO-WRITE error; files already written by
// this call are left in place — the writer does not roll earlier writes
// back (spec §4.7: "no partial rollback of earlier writes").
func (w *Writer) Write(ctx context.Context, baseURL string, t *Tree) error {
	for i, relPath := range t.Paths() {
		content, _ := t.Get(relPath)
		dest := path.Join(baseURL, relPath)
		tmp := dest + ".kumeoc-tmp-" + strconv.Itoa(i)
		if err := w.fs.Upload(ctx, tmp, 0644, bytes.NewReader(content)); err != nil {
			return fmt.Errorf("E-IO-WRITE: write %s: %w", dest, err)
		}
		if err := w.fs.Move(ctx, tmp, dest); err != nil {
			return fmt.Errorf("E-IO-WRITE: rename %s: %w", dest, err)
		}
	}
	return nil
}

// EnsureDir is a convenience used by cmd/kumeoc to pre-create an output
// root before the compiler runs, matching afs's directory-as-0-byte-object
// convention on object-store backends.
func (w *Writer) EnsureDir(ctx context.Context, dirURL string) error {
	return w.fs.Create(ctx, dirURL, os.ModeDir|0755, true)
}
