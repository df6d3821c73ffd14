package netlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/library"
	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// Loader loads a referenced schematic with ports attached and
// connectivity built.
type Loader interface {
	Load(path string) (*schematic.Document, error)
}

// Cache entry kinds.
const (
	KindSchematic = "SCH"
	KindLibrary   = "LIB"
	KindSPICE     = "CIR"
	KindVHDL      = "VHD"
	KindVerilog   = "VER"
)

// CacheEntry summarizes a resolved reference.
type CacheEntry struct {
	Kind      string
	Name      string   // definition name used by instances
	PortTypes []string // signal type per port, may be empty
	Params    []string // parameter names, in instance property order
}

// Context is the state of one top-level netlisting pass. It is not safe
// for concurrent use; create a new one per pass.
type Context struct {
	Loader  Loader
	Catalog library.Catalog
	// SearchPaths are tried after the referencing document's directory.
	SearchPaths []string
	// CreatingLibrary skips library references instead of resolving them.
	CreatingLibrary bool
	// Logf receives warnings as they are raised. It may be nil.
	Logf func(format string, args ...any)

	cache    map[string]*CacheEntry
	pending  map[string]bool
	libs     map[string]*library.Library
	defNames map[string]string // definition name -> cache key
	nodeSets int
	warnings []string
}

// NewContext returns a Context with empty caches.
func NewContext(loader Loader, catalog library.Catalog) *Context {
	return &Context{
		Loader:   loader,
		Catalog:  catalog,
		cache:    make(map[string]*CacheEntry),
		pending:  make(map[string]bool),
		libs:     make(map[string]*library.Library),
		defNames: make(map[string]string),
	}
}

// Entry returns the cache entry for a key.
func (ctx *Context) Entry(key string) (*CacheEntry, bool) {
	e, ok := ctx.cache[key]
	return e, ok
}

// Len returns the number of resolved references.
func (ctx *Context) Len() int { return len(ctx.cache) }

// Warnings returns the warnings raised so far.
func (ctx *Context) Warnings() []string { return ctx.warnings }

func (ctx *Context) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ctx.warnings = append(ctx.warnings, msg)
	if ctx.Logf != nil {
		ctx.Logf("warning: %s", msg)
	}
}

// definitionName reserves a definition name for the reference stored
// under key. A name already taken by another key gets a numeric suffix.
func (ctx *Context) definitionName(base, key string) string {
	name := base
	for i := 1; ; i++ {
		owner, taken := ctx.defNames[name]
		if !taken || owner == key {
			break
		}
		name = base + "_" + strconv.Itoa(i)
	}
	ctx.defNames[name] = key
	return name
}

func (ctx *Context) nextNodeSet() int {
	n := ctx.nodeSets
	ctx.nodeSets++
	return n
}

// locate finds a referenced file relative to the referencing document,
// then in the search paths. The result is a cleaned absolute path.
func (ctx *Context) locate(doc *schematic.Document, file string) (string, error) {
	return findFile(docDir(doc), file, ctx.SearchPaths)
}

func (ctx *Context) library(path string) (*library.Library, error) {
	if lib, ok := ctx.libs[path]; ok {
		return lib, nil
	}
	lib, err := library.ParseFile(path)
	if err != nil {
		return nil, err
	}
	ctx.libs[path] = lib
	return lib, nil
}

func docDir(doc *schematic.Document) string {
	if doc == nil || doc.Path == "" {
		return "."
	}
	return filepath.Dir(doc.Path)
}

func findFile(dir, file string, paths []string) (string, error) {
	var candidates []string
	if filepath.IsAbs(file) {
		candidates = []string{file}
	} else {
		candidates = append(candidates, filepath.Join(dir, file))
		for _, p := range paths {
			candidates = append(candidates, filepath.Join(p, file))
		}
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return filepath.Abs(filepath.Clean(c))
		}
	}
	return "", fmt.Errorf("%s: %w", file, os.ErrNotExist)
}
