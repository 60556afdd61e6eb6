package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sambabib/depcheck/pkg/extractor"
	"github.com/sambabib/depcheck/pkg/logger"
)

// DefaultIgnoreDirs are never descended into, whatever the configuration.
var DefaultIgnoreDirs = []string{
	".git",
	".svn",
	".hg",
	".idea",
	"node_modules",
	"bower_components",
}

// DefaultExtensions is used when Options.Extensions is empty.
var DefaultExtensions = []string{".js"}

const defaultMaxOpenFiles = 64

// Options configures a Scanner.
type Options struct {
	Extensions   []string // file suffixes to scan, including the dot
	JSX          bool     // accept JSX syntax
	IgnoreDirs   []string // directory basenames to skip, added to DefaultIgnoreDirs
	MaxOpenFiles int      // concurrent directory listings and file reads; 0 means 64
}

// InvalidFiles maps a file path to the reason it could not be analyzed.
type InvalidFiles map[string]error

// Result is the outcome of scanning one directory subtree.
type Result struct {
	Candidates   Candidates
	InvalidFiles InvalidFiles
}

// ReadError is recorded for a file whose content could not be obtained.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// SubtreeError is returned when a directory cannot be listed.
type SubtreeError struct {
	Dir string
	Err error
}

func (e *SubtreeError) Error() string {
	return fmt.Sprintf("cannot scan directory %s: %v", e.Dir, e.Err)
}

func (e *SubtreeError) Unwrap() error {
	return e.Err
}

// Scanner finds which candidate dependencies are referenced by no source
// file in a directory tree.
type Scanner struct {
	fsys       fs.FS
	extensions map[string]bool
	ignoreDirs map[string]bool
	dialect    extractor.Options
	sem        *semaphore.Weighted
}

// New creates a Scanner over fsys.
func New(fsys fs.FS, opts Options) *Scanner {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	maxOpen := opts.MaxOpenFiles
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenFiles
	}

	s := &Scanner{
		fsys:       fsys,
		extensions: make(map[string]bool, len(exts)),
		ignoreDirs: make(map[string]bool, len(DefaultIgnoreDirs)+len(opts.IgnoreDirs)),
		dialect:    extractor.Options{JSX: opts.JSX},
		sem:        semaphore.NewWeighted(int64(maxOpen)),
	}
	for _, ext := range exts {
		s.extensions[ext] = true
	}
	for _, dir := range DefaultIgnoreDirs {
		s.ignoreDirs[dir] = true
	}
	for _, dir := range opts.IgnoreDirs {
		s.ignoreDirs[dir] = true
	}
	return s
}

// Scan walks the whole tree from the root of the file system and returns
// the candidates that survived, along with every file that failed to
// parse or read. cands is not modified.
func (s *Scanner) Scan(ctx context.Context, cands Candidates) (*Result, error) {
	return s.reduce(ctx, ".", cands.Clone())
}

// reduce scans dir, which owns cands and may shrink it in place.
func (s *Scanner) reduce(ctx context.Context, dir string, cands Candidates) (*Result, error) {
	entries, err := s.readDir(ctx, dir)
	if err != nil {
		return nil, &SubtreeError{Dir: dir, Err: err}
	}

	result := &Result{Candidates: cands, InvalidFiles: InvalidFiles{}}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		p := path.Join(dir, name)
		if entry.IsDir() {
			if !s.ignoreDirs[name] {
				subdirs = append(subdirs, p)
			}
			continue
		}
		if !s.extensions[path.Ext(name)] {
			continue
		}
		s.scanFile(ctx, p, result)
	}

	if cands.Empty() {
		// nothing left to prove used
		return result, nil
	}

	children := make([]*Result, len(subdirs))
	var g errgroup.Group
	for i, sub := range subdirs {
		snapshot := cands.Clone()
		g.Go(func() error {
			child, err := s.reduce(ctx, sub, snapshot)
			if err != nil {
				logger.Warnf("Skipping %s: %v", sub, err)
				return nil
			}
			children[i] = child
			return nil
		})
	}
	_ = g.Wait()

	for _, child := range children {
		if child == nil {
			continue
		}
		result.Candidates.intersect(child.Candidates)
		for p, reason := range child.InvalidFiles {
			result.InvalidFiles[p] = reason
		}
	}

	return result, nil
}

func (s *Scanner) scanFile(ctx context.Context, p string, result *Result) {
	src, err := s.readFile(ctx, p)
	if err != nil {
		logger.Debugf("Scanner: cannot read %s: %v", p, err)
		result.InvalidFiles[p] = &ReadError{Path: p, Err: err}
		return
	}

	specs, err := extractor.Extract(ctx, src, s.dialect)
	if err != nil {
		logger.Debugf("Scanner: cannot parse %s: %v", p, err)
		result.InvalidFiles[p] = err
		return
	}

	logger.Debugf("Scanner: %s references %v", p, specs)
	result.Candidates.remove(extractor.NormalizeAll(specs))
}

func (s *Scanner) readDir(ctx context.Context, dir string) ([]fs.DirEntry, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return fs.ReadDir(s.fsys, dir)
}

func (s *Scanner) readFile(ctx context.Context, p string) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return fs.ReadFile(s.fsys, p)
}
