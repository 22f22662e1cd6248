package errorpage

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Default base directory names, relative to the working directory.
const (
	DefaultPublicDir   = "Public"
	DefaultResourceDir = "Resources"
)

// Dirs holds the base directories rule files are read from.
type Dirs struct {
	Public   string
	Resource string
}

// DefaultDirs returns the Public/ and Resources/ directories.
func DefaultDirs() Dirs {
	return Dirs{Public: DefaultPublicDir, Resource: DefaultResourceDir}
}

func (d Dirs) base(loc Location) string {
	if loc == Resource {
		return d.Resource
	}
	return d.Public
}

// ResultKind describes the outcome of a lookup.
type ResultKind int

const (
	// NotFound means no rule matched or the matched path is not a regular file.
	NotFound ResultKind = iota
	// Found means the file was read.
	Found
	// ReadFailed means the file exists but could not be read.
	ReadFailed
)

func (k ResultKind) String() string {
	switch k {
	case Found:
		return "found"
	case ReadFailed:
		return "read_failed"
	default:
		return "not_found"
	}
}

// Result is the outcome of resolving a status code to a file.
type Result struct {
	Kind ResultKind
	Rule Rule
	Path string
	Body []byte
	Err  error
}

// Resolver maps status codes to static files.
// It is immutable and safe for concurrent use.
type Resolver struct {
	fs    billy.Filesystem
	dirs  Dirs
	rules Rules
}

// NewResolver creates a resolver reading files from fs.
func NewResolver(fs billy.Filesystem, dirs Dirs, rules Rules) *Resolver {
	return &Resolver{fs: fs, dirs: dirs, rules: rules}
}

// Rules returns the configured rules.
func (r *Resolver) Rules() Rules {
	return r.rules
}

// Path returns the filesystem path a rule points at.
func (r *Resolver) Path(rule Rule) string {
	return r.fs.Join(r.dirs.base(rule.Location), rule.File)
}

// Resolve finds and reads the file configured for status.
// A missing file or a directory is reported as NotFound, never as an error.
func (r *Resolver) Resolve(status int) Result {
	rule, ok := r.rules.Match(status)
	if !ok {
		return Result{Kind: NotFound}
	}

	path := r.Path(rule)
	info, err := r.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Result{Kind: NotFound, Rule: rule, Path: path}
	}

	body, err := util.ReadFile(r.fs, path)
	if err != nil {
		return Result{
			Kind: ReadFailed,
			Rule: rule,
			Path: path,
			Err:  fmt.Errorf("failed to read error page %s: %w", path, err),
		}
	}

	return Result{Kind: Found, Rule: rule, Path: path, Body: body}
}
