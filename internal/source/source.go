// Package source reads editable code out of input files and writes edited
// code back to them. Python files are used as-is; Markdown and HTML files
// contribute their first Python code block.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-cli-collective/ice-cli/pkg/md"
)

// Kind is the container format of an input file.
type Kind string

const (
	KindCode     Kind = "code"
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
)

// ErrReadOnly is returned when writing back to a format that cannot hold
// edited code.
var ErrReadOnly = errors.New("source is read-only")

// File is an input file and the code extracted from it.
type File struct {
	Path string
	Kind Kind
	Code string

	raw   []byte
	block md.CodeBlock
}

// KindOf returns the container format implied by the file extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return KindMarkdown
	case ".html", ".htm":
		return KindHTML
	}
	return KindCode
}

// Read loads path and extracts its code written in lang.
func Read(path, lang string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data, lang)
}

// Parse extracts the code written in lang from data, treating it according
// to the extension of path.
func Parse(path string, data []byte, lang string) (*File, error) {
	f := &File{Path: path, Kind: KindOf(path), raw: data}
	switch f.Kind {
	case KindMarkdown:
		b, err := md.FirstCode(data, lang)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f.block = b
		f.Code = b.Code
	case KindHTML:
		b, err := md.ExtractCodeFromHTML(string(data), lang)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f.block = b
		f.Code = b.Code
	default:
		f.Code = string(data)
	}
	return f, nil
}

// Render returns the file content with its code replaced by code.
func (f *File) Render(code string) ([]byte, error) {
	switch f.Kind {
	case KindMarkdown:
		return md.ReplaceCode(f.raw, f.block, code)
	case KindHTML:
		return nil, fmt.Errorf("%s: %w", f.Path, ErrReadOnly)
	}
	return []byte(code), nil
}

// Write stores code back into the file on disk, keeping its permissions.
func (f *File) Write(code string) error {
	data, err := f.Render(code)
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.Path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	f.raw = data
	if f.Kind == KindMarkdown {
		// Offsets moved; locate the block again.
		if b, err := md.FirstCode(data, f.block.Language); err == nil {
			f.block = b
		}
	}
	f.Code = code
	return nil
}
