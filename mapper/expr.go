package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/datakit/accessor"
)

// expr is a parsed template expression: a source path with optional query
// clauses and a filter pipeline.
type expr struct {
	path    string
	where   []condition
	orderBy []orderKey
	limit   int // -1 when absent
	offset  int
	filters []filterCall
}

func (e *expr) hasQuery() bool {
	return len(e.where) > 0 || len(e.orderBy) > 0 || e.limit >= 0 || e.offset > 0
}

type condition struct {
	path  string
	op    string
	value any // literal, or []any for IN
}

type orderKey struct {
	path string
	desc bool
}

type filterCall struct {
	name string
	args []string
	fn   FilterFunc
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenString
	tokenOp
	tokenPipe
	tokenColon
	tokenComma
	tokenLParen
	tokenRParen
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	off  int
}

// isWordRune reports whether r can be part of a path, keyword, number or
// unquoted filter argument.
func isWordRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '|', ',', ':', '(', ')', '"', '=', '<', '>', '!':
		return false
	}
	return true
}

func lexExpression(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '|':
			toks = append(toks, token{tokenPipe, "|", i})
			i++
		case r == ',':
			toks = append(toks, token{tokenComma, ",", i})
			i++
		case r == ':':
			toks = append(toks, token{tokenColon, ":", i})
			i++
		case r == '(':
			toks = append(toks, token{tokenLParen, "(", i})
			i++
		case r == ')':
			toks = append(toks, token{tokenRParen, ")", i})
			i++
		case r == '=':
			toks = append(toks, token{tokenOp, "=", i})
			i++
		case r == '!':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, "!", i)
			}
			toks = append(toks, token{tokenOp, "!=", i})
			i += 2
		case r == '<' || r == '>':
			op := string(r)
			start := i
			i++
			if i < len(runes) && runes[i] == '=' {
				op += "="
				i++
			}
			toks = append(toks, token{tokenOp, op, start})
		case r == '"':
			start := i
			i++
			var b strings.Builder
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if runes[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, start)
			}
			toks = append(toks, token{tokenString, b.String(), start})
		default:
			if !isWordRune(r) {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, string(r), i)
			}
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			toks = append(toks, token{tokenWord, string(runes[start:i]), start})
		}
	}
	toks = append(toks, token{tokenEOF, "", len(runes)})
	return toks, nil
}

type exprParser struct {
	toks    []token
	pos     int
	filters map[string]FilterFunc
}

// parseExpression parses the text between {{ and }}. Filter names are
// resolved against the registry immediately so a typo fails at parse time,
// not per mapped value.
func parseExpression(src string, filters map[string]FilterFunc) (*expr, error) {
	toks, err := lexExpression(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks, filters: filters}

	pathTok, err := p.expect(tokenWord, "path")
	if err != nil {
		return nil, err
	}
	e := &expr{path: pathTok.text, limit: -1}

	for {
		tok := p.peek()
		switch {
		case tok.kind == tokenEOF:
			if e.hasQuery() && !accessor.HasWildcard(e.path) {
				return nil, fmt.Errorf("%w: %s", ErrQueryWithoutWildcard, e.path)
			}
			return e, nil
		case tok.kind == tokenWord && strings.EqualFold(tok.text, "WHERE"):
			p.next()
			if err := p.parseWhere(e); err != nil {
				return nil, err
			}
		case tok.kind == tokenWord && strings.EqualFold(tok.text, "ORDER"):
			p.next()
			if _, err := p.expectKeyword("BY"); err != nil {
				return nil, err
			}
			if err := p.parseOrderBy(e); err != nil {
				return nil, err
			}
		case tok.kind == tokenWord && strings.EqualFold(tok.text, "LIMIT"):
			p.next()
			n, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			e.limit = n
		case tok.kind == tokenWord && strings.EqualFold(tok.text, "OFFSET"):
			p.next()
			n, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			e.offset = n
		case tok.kind == tokenPipe:
			p.next()
			if err := p.parseFilter(e); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, tok.text, tok.off)
		}
	}
}

func (p *exprParser) parseWhere(e *expr) error {
	for {
		cond, err := p.parseCondition()
		if err != nil {
			return err
		}
		e.where = append(e.where, cond)

		tok := p.peek()
		if tok.kind == tokenWord && strings.EqualFold(tok.text, "AND") {
			p.next()
			continue
		}
		return nil
	}
}

func (p *exprParser) parseCondition() (condition, error) {
	pathTok, err := p.expect(tokenWord, "condition path")
	if err != nil {
		return condition{}, err
	}
	cond := condition{path: pathTok.text}

	tok := p.next()
	switch {
	case tok.kind == tokenOp:
		cond.op = tok.text
	case tok.kind == tokenWord && strings.EqualFold(tok.text, "LIKE"):
		cond.op = "LIKE"
	case tok.kind == tokenWord && strings.EqualFold(tok.text, "IN"):
		cond.op = "IN"
	case tok.kind == tokenWord && strings.EqualFold(tok.text, "CONTAINS"):
		cond.op = "CONTAINS"
	default:
		return condition{}, fmt.Errorf("%w: expected operator at offset %d, got %q", ErrSyntax, tok.off, tok.text)
	}

	if cond.op == "IN" {
		if _, err := p.expect(tokenLParen, "("); err != nil {
			return condition{}, err
		}
		var list []any
		for {
			lit, err := p.parseLiteral()
			if err != nil {
				return condition{}, err
			}
			list = append(list, lit)
			tok := p.next()
			if tok.kind == tokenComma {
				continue
			}
			if tok.kind == tokenRParen {
				break
			}
			return condition{}, fmt.Errorf("%w: expected , or ) at offset %d", ErrSyntax, tok.off)
		}
		cond.value = list
		return cond, nil
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return condition{}, err
	}
	cond.value = lit
	return cond, nil
}

func (p *exprParser) parseOrderBy(e *expr) error {
	for {
		pathTok, err := p.expect(tokenWord, "order by path")
		if err != nil {
			return err
		}
		key := orderKey{path: pathTok.text}

		tok := p.peek()
		if tok.kind == tokenWord && strings.EqualFold(tok.text, "ASC") {
			p.next()
		} else if tok.kind == tokenWord && strings.EqualFold(tok.text, "DESC") {
			p.next()
			key.desc = true
		}
		e.orderBy = append(e.orderBy, key)

		if p.peek().kind == tokenComma {
			p.next()
			continue
		}
		return nil
	}
}

func (p *exprParser) parseFilter(e *expr) error {
	nameTok, err := p.expect(tokenWord, "filter name")
	if err != nil {
		return err
	}
	call := filterCall{name: nameTok.text}

	fn, ok := p.filters[call.name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, call.name)
	}
	call.fn = fn

	if p.peek().kind == tokenColon {
		p.next()
		for {
			tok := p.next()
			if tok.kind != tokenWord && tok.kind != tokenString {
				return fmt.Errorf("%w: expected filter argument at offset %d", ErrSyntax, tok.off)
			}
			call.args = append(call.args, tok.text)
			if p.peek().kind == tokenComma {
				p.next()
				continue
			}
			break
		}
	}

	e.filters = append(e.filters, call)
	return nil
}

// parseLiteral consumes a condition literal: a quoted string, a number, or
// one of true, false, null.
func (p *exprParser) parseLiteral() (any, error) {
	tok := p.next()
	switch tok.kind {
	case tokenString:
		return tok.text, nil
	case tokenWord:
		switch {
		case strings.EqualFold(tok.text, "true"):
			return true, nil
		case strings.EqualFold(tok.text, "false"):
			return false, nil
		case strings.EqualFold(tok.text, "null"):
			return nil, nil
		}
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(tok.text, 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: invalid literal %q at offset %d", ErrSyntax, tok.text, tok.off)
	default:
		return nil, fmt.Errorf("%w: expected literal at offset %d", ErrSyntax, tok.off)
	}
}

func (p *exprParser) peek() token {
	return p.toks[p.pos]
}

func (p *exprParser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) expect(kind tokenKind, what string) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return token{}, fmt.Errorf("%w: expected %s at offset %d, got %q", ErrSyntax, what, tok.off, tok.text)
	}
	return tok, nil
}

func (p *exprParser) expectKeyword(kw string) (token, error) {
	tok := p.next()
	if tok.kind != tokenWord || !strings.EqualFold(tok.text, kw) {
		return token{}, fmt.Errorf("%w: expected %s at offset %d, got %q", ErrSyntax, kw, tok.off, tok.text)
	}
	return tok, nil
}

func (p *exprParser) expectInt() (int, error) {
	tok, err := p.expect(tokenWord, "number")
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(tok.text)
	if convErr != nil || n < 0 {
		return 0, fmt.Errorf("%w: expected non-negative number at offset %d, got %q", ErrSyntax, tok.off, tok.text)
	}
	return n, nil
}

