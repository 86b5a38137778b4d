package facts

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jmodel/java"
)

// typeExpr is a type expression as written in a fact document, before any
// name is resolved.
type typeExpr struct {
	name   string // dotted as written, or "?"
	args   []*typeExpr
	bounds []*typeExpr
	lower  bool
	array  int
}

func (e *typeExpr) isWildcard() bool { return e.name == "?" }

// parseTypeExpr accepts
//
//	Name | pkg.Outer.Name | Name<Arg, ...> | ? | ? extends T & U | ? super T
//
// followed by any number of [] and an optional trailing "..." which counts
// as one more dimension.
func parseTypeExpr(src string) (*typeExpr, error) {
	p := &exprParser{src: src}
	e, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) done() bool { return p.pos >= len(p.src) }

func (p *exprParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *exprParser) errorf(format string, args ...any) error {
	return java.UnsupportedShapef("type expression %q at offset %d: "+format,
		append([]any{p.src, p.pos}, args...)...)
}

func isNameRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// name reads a dotted name, stopping before a "..." varargs marker.
func (p *exprParser) name() string {
	start := p.pos
	for !p.done() {
		if p.src[p.pos] == '.' {
			if strings.HasPrefix(p.src[p.pos:], "..") {
				break
			}
			p.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isNameRune(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

// keyword consumes word if it is the next token.
func (p *exprParser) keyword(word string) bool {
	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, word) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(rest[len(word):]); isNameRune(r) {
		return false
	}
	p.pos += len(word)
	return true
}

func (p *exprParser) parseType() (*typeExpr, error) {
	p.skipSpace()
	if p.peek() == '?' {
		p.pos++
		return p.parseWildcard()
	}

	start := p.pos
	name := p.name()
	if name == "" {
		if p.done() {
			return nil, p.errorf("missing type")
		}
		return nil, p.errorf("unexpected %q", string(p.peek()))
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			p.pos = start
			return nil, p.errorf("malformed name %q", name)
		}
	}
	e := &typeExpr{name: name}

	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			e.args = append(e.args, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return nil, p.errorf("expected , or > in type arguments of %s", name)
			}
			break
		}
		p.skipSpace()
		if p.peek() == '.' && !strings.HasPrefix(p.src[p.pos:], "...") {
			return nil, p.errorf("member type of a parameterized type is not supported")
		}
	}

	for {
		p.skipSpace()
		if p.peek() == '[' {
			p.pos++
			p.skipSpace()
			if p.peek() != ']' {
				return nil, p.errorf("expected ]")
			}
			p.pos++
			e.array++
			continue
		}
		if strings.HasPrefix(p.src[p.pos:], "...") {
			p.pos += 3
			e.array++
		}
		return e, nil
	}
}

func (p *exprParser) parseWildcard() (*typeExpr, error) {
	e := &typeExpr{name: "?"}
	p.skipSpace()
	switch {
	case p.keyword("extends"):
	case p.keyword("super"):
		e.lower = true
	default:
		return e, nil
	}
	for {
		bound, err := p.parseType()
		if err != nil {
			return nil, err
		}
		e.bounds = append(e.bounds, bound)
		p.skipSpace()
		if p.peek() != '&' {
			break
		}
		if e.lower {
			return nil, p.errorf("a lower-bounded wildcard takes a single bound")
		}
		p.pos++
	}
	return e, nil
}
