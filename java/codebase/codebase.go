// Package codebase keeps a live view of every fact document below a root
// directory and answers queries about the classes they declare.
package codebase

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jmodel/java"
	"github.com/dhamidi/jmodel/java/facts"
)

var log = commonlog.GetLogger("jmodel.codebase")

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	opts    []facts.Option
	files   map[string]*FileInfo
	loader  *facts.Loader
	owners  map[string]string
}

type FileInfo struct {
	Path     string
	Content  []byte
	Document *facts.Document
	ParseErr error
	// Duplicates lists classes this file declares that an earlier file
	// already declared. They are left out of the model.
	Duplicates []string
}

func New(rootDir string, opts ...facts.Option) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*FileInfo),
	}
	c.rebuildLocked()
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if facts.IsFactFile(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("%s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the content of path and rebuilds the model. A document
// that fails to parse is kept with its error so it can be reported; the
// returned error is that parse error.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateFileLocked(path, content)
}

func (c *Codebase) updateFileLocked(path string, content []byte) error {
	doc, parseErr := facts.Decode(strings.NewReader(string(content)), facts.FormatForPath(path))

	c.files[path] = &FileInfo{
		Path:     path,
		Content:  content,
		Document: doc,
		ParseErr: parseErr,
	}

	c.rebuildLocked()
	return parseErr
}

// rebuildLocked indexes every parsed document in path order. The first file
// to declare a class owns it.
func (c *Codebase) rebuildLocked() {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	c.owners = make(map[string]string)
	var docs []*facts.Document
	for _, path := range paths {
		f := c.files[path]
		f.Duplicates = nil
		if f.Document == nil {
			continue
		}
		kept := &facts.Document{}
		for _, class := range f.Document.Classes {
			name := class.QualifiedName()
			if class.Name == "" {
				continue
			}
			if owner, dup := c.owners[name]; dup {
				log.Warningf("%s: %s is already declared in %s", path, name, owner)
				f.Duplicates = append(f.Duplicates, name)
				continue
			}
			c.owners[name] = path
			kept.Classes = append(kept.Classes, class)
		}
		docs = append(docs, kept)
	}

	loader, err := facts.NewLoader(docs, c.opts...)
	if err != nil {
		// Duplicates and nameless classes were filtered above.
		log.Errorf("indexing fact documents: %s", err)
		loader, _ = facts.NewLoader(nil, c.opts...)
	}
	c.loader = loader
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files lists the tracked paths in sorted order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ClassNames lists the qualified names of every declared class, sorted.
func (c *Codebase) ClassNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := c.loader.Names()
	slices.Sort(names)
	return names
}

// FileOf returns the path of the document declaring name.
func (c *Codebase) FileOf(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.owners[name]
	return path, ok
}

// Class builds the named class. Building memoizes inside the loader, so it
// takes the write lock.
func (c *Codebase) Class(name string) (*java.Class, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Class(name)
}

// FindClass resolves name as a qualified name first, then as a simple or
// nested name that matches exactly one declared class.
func (c *Codebase) FindClass(name string) (*java.Class, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.owners[name]; ok {
		return c.loader.Class(name)
	}
	var matches []string
	for qualified := range c.owners {
		if strings.HasSuffix(qualified, "."+name) {
			matches = append(matches, qualified)
		}
	}
	switch len(matches) {
	case 0:
		return c.loader.Class(name)
	case 1:
		return c.loader.Class(matches[0])
	}
	sort.Strings(matches)
	return nil, errors.WithHintf(
		errors.Mark(errors.Newf("%s is ambiguous", name), facts.ErrUnresolvedType),
		"use one of: %s", strings.Join(matches, ", "))
}

// Problem is one error found while building the classes of a file.
type Problem struct {
	Path  string
	Class string
	Err   error
}

// Problems builds every class and reports, per file, the parse errors,
// duplicates and build failures found.
func (c *Codebase) Problems() map[string][]Problem {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string][]Problem)
	for path, f := range c.files {
		result[path] = nil
		if f.ParseErr != nil {
			result[path] = append(result[path], Problem{Path: path, Err: f.ParseErr})
			continue
		}
		for _, name := range f.Duplicates {
			result[path] = append(result[path], Problem{
				Path:  path,
				Class: name,
				Err:   errors.Mark(errors.Newf("class %s is declared more than once", name), facts.ErrDuplicateClass),
			})
		}
	}
	for _, name := range c.loader.Names() {
		if _, err := c.loader.Class(name); err != nil {
			path := c.owners[name]
			result[path] = append(result[path], Problem{Path: path, Class: name, Err: err})
		}
	}
	return result
}

func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	word := wordBefore(f.Content, line, column)

	if owner, prefix, ok := strings.Cut(word, "#"); ok {
		class, err := c.FindClass(owner)
		if err != nil {
			return nil
		}
		return memberCompletions(class, prefix)
	}

	var items []CompletionItem
	for _, name := range c.ClassNames() {
		simple := name[strings.LastIndex(name, ".")+1:]
		if !strings.HasPrefix(name, word) && !strings.HasPrefix(simple, word) {
			continue
		}
		items = append(items, CompletionItem{
			Label:      simple,
			Kind:       CompletionKindClass,
			Detail:     name,
			InsertText: name,
		})
	}
	return items
}

func memberCompletions(class *java.Class, prefix string) []CompletionItem {
	var items []CompletionItem

	for _, m := range class.AllMethods() {
		if m.Visibility() == java.VisibilityPrivate || !strings.HasPrefix(m.Name(), prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:      m.Name(),
			Kind:       CompletionKindMethod,
			Detail:     m.String(),
			InsertText: formatMethodInsert(m),
		})
	}

	for _, f := range class.AllFields() {
		if f.Visibility() == java.VisibilityPrivate || !strings.HasPrefix(f.Name(), prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:      f.Name(),
			Kind:       CompletionKindField,
			Detail:     f.Type().String(),
			InsertText: f.Name(),
		})
	}

	return items
}

// Hover describes the class named at the given point: its declaration
// followed by the flattened member surface.
func (c *Codebase) Hover(path string, line, column int) string {
	f := c.GetFile(path)
	if f == nil {
		return ""
	}
	word := wordAt(f.Content, line, column)
	if word == "" {
		return ""
	}
	word, _, _ = strings.Cut(word, "#")
	class, err := c.FindClass(word)
	if err != nil {
		return ""
	}
	return Describe(class)
}

// Describe renders a class header and its flattened members in Java syntax.
func Describe(class *java.Class) string {
	pkg := class.Type().Package()
	table := java.NewReferenceTable(pkg, class.Types())

	var sb strings.Builder
	sb.WriteString(class.Declaration(table))
	sb.WriteString(" {\n")
	for _, f := range class.AllFields() {
		sb.WriteString("    ")
		sb.WriteString(f.Render(table))
		sb.WriteString(";\n")
	}
	for _, m := range class.AllMethods() {
		sb.WriteString("    ")
		sb.WriteString(m.Render(table))
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

func formatMethodInsert(m *java.Method) string {
	params := m.Parameters()
	if len(params) == 0 {
		return m.Name() + "()"
	}
	var placeholders []string
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = p.Type.Name()
		}
		placeholders = append(placeholders, "${"+itoa(i+1)+":"+name+"}")
	}
	return m.Name() + "(" + strings.Join(placeholders, ", ") + ")"
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + string(rune('0'+i%10))
}

func isWordByte(b byte) bool {
	return b == '.' || b == '_' || b == '$' || b == '#' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func lineOf(content []byte, line int) (string, bool) {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// wordBefore is the word ending at column, 1-based line, 0-based column.
func wordBefore(content []byte, line, column int) string {
	text, ok := lineOf(content, line)
	if !ok {
		return ""
	}
	end := min(column, len(text))
	start := end
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	return text[start:end]
}

// wordAt is the whole word covering column.
func wordAt(content []byte, line, column int) string {
	text, ok := lineOf(content, line)
	if !ok || column < 0 {
		return ""
	}
	end := min(column, len(text))
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	start := min(column, len(text))
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	return strings.Trim(text[start:end], ".")
}
