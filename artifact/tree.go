// Package artifact holds the deterministic virtual file tree the code
// generator builds (spec §4.5) and the afs-backed atomic Writer that
// serializes it to disk (spec §4.7).
package artifact

import (
	"sort"

	"github.com/minio/highwayhash"
)

// Tree is an ordered path → bytes map: the code generator's entire output
// for one compile, held in memory before any disk write happens so the
// writer can fail atomically per-file without partially corrupting a
// previous build (spec §4.7).
type Tree struct {
	files map[string][]byte
	order []string
}

// NewTree creates an empty virtual tree.
func NewTree() *Tree {
	return &Tree{files: map[string][]byte{}}
}

// Set adds or replaces the content at relPath. Overwriting an existing path
// replaces its content without adding a second entry; Paths() lists paths
// sorted, so the order of Set calls does not affect it.
func (t *Tree) Set(relPath string, content []byte) {
	if _, exists := t.files[relPath]; !exists {
		t.order = append(t.order, relPath)
	}
	t.files[relPath] = content
}

// Get returns the content at relPath, or nil, false if absent.
func (t *Tree) Get(relPath string) ([]byte, bool) {
	b, ok := t.files[relPath]
	return b, ok
}

// Paths returns every path in the tree, sorted lexicographically — the
// tree's iteration order for writing and hashing is always sorted, never
// insertion order, so two builds from identical content are byte-identical
// regardless of the order the generator happened to call Set in (spec §4.5
// Determinism, §8 Generator determinism).
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.files))
	for p := range t.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of files in the tree.
func (t *Tree) Len() int { return len(t.files) }

// Hash returns a stable fingerprint of the whole tree's content, used by
// the generator-determinism testable property (spec §8). The build
// fingerprint embedded in the Taskfile/README is not this value; it is
// combined from the agent records (codegen's fingerprintWorkflow).
func (t *Tree) Hash() (uint64, error) {
	h, err := highwayhash.New64(treeHashKey)
	if err != nil {
		return 0, err
	}
	for _, p := range t.Paths() {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(t.files[p])
		h.Write([]byte{0})
	}
	return h.Sum64(), nil
}

var treeHashKey = []byte("KUMEOC-TREE-HASH-KEY-0123456789!")
