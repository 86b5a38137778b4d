package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/jmodel/java/facts"
)

const lsName = "jmodel"

// LSPServer serves fact documents: diagnostics for classes that fail to
// build, class name and member completion, and hover with the flattened
// member surface.
type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	opts     []facts.Option

	notifyMu sync.Mutex
	notify   glsp.NotifyFunc
}

func NewLSPServer(version string, opts ...facts.Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		opts:    opts,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
		TextDocumentHover:      ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.opts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", "#"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.notifyMu.Lock()
	ls.notify = ctx.Notify
	ls.notifyMu.Unlock()

	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scanning %s: %s", ls.codebase.RootDir(), err)
	}

	watcher, err := NewFileWatcher(ls.codebase)
	if err != nil {
		log.Warningf("not watching %s: %s", ls.codebase.RootDir(), err)
	} else {
		watcher.OnChange(func([]string) { ls.publishDiagnostics() })
		watcher.Start()
		ls.watcher = watcher
	}

	ls.publishDiagnostics()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		return ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || !facts.IsFactFile(path) {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics()
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || !facts.IsFactFile(path) {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics()
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || !facts.IsFactFile(path) {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	ls.publishDiagnostics()
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	completions := ls.codebase.CompletionsAtPoint(path, line, col)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		format := protocol.InsertTextFormatPlainText
		if c.Kind == CompletionKindMethod {
			format = protocol.InsertTextFormatSnippet
		}

		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		})
	}

	return items, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	text := ls.codebase.Hover(path, int(params.Position.Line)+1, int(params.Position.Character))
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```java\n" + text + "\n```",
		},
	}, nil
}

// publishDiagnostics sends the problems of every tracked file, including
// empty lists so that fixed files are cleared.
func (ls *LSPServer) publishDiagnostics() {
	ls.notifyMu.Lock()
	notify := ls.notify
	ls.notifyMu.Unlock()
	if notify == nil {
		return
	}

	for path, problems := range ls.codebase.Problems() {
		var content []byte
		if f := ls.codebase.GetFile(path); f != nil {
			content = f.Content
		}
		diagnostics := make([]protocol.Diagnostic, 0, len(problems))
		for _, p := range problems {
			diagnostics = append(diagnostics, toDiagnostic(content, p))
		}
		notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: diagnostics,
		})
	}
}

func toDiagnostic(content []byte, p Problem) protocol.Diagnostic {
	line := uint32(ProblemLine(content, p.Class))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line + 1, Character: 0},
		},
		Severity: &severity,
		Source:   &source,
		Message:  p.Err.Error(),
	}
}

// ProblemLine guesses the 0-based line declaring class: the first line
// naming its simple name next to a name key.
func ProblemLine(content []byte, class string) int {
	if class == "" {
		return 0
	}
	simple := class[strings.LastIndex(class, ".")+1:]
	for i, text := range strings.Split(string(content), "\n") {
		if !strings.Contains(text, "name") {
			continue
		}
		idx := strings.Index(text, simple)
		for idx >= 0 {
			end := idx + len(simple)
			before := idx == 0 || !isWordByte(text[idx-1])
			after := end == len(text) || !isWordByte(text[end])
			if before && after {
				return i
			}
			next := strings.Index(text[end:], simple)
			if next < 0 {
				break
			}
			idx = end + next
		}
	}
	return 0
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindField:
		return protocol.CompletionItemKindField
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
