package mapper

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/dmitrymomot/datakit/accessor"
	"github.com/dmitrymomot/datakit/dto"
	"github.com/dmitrymomot/datakit/mutator"
)

// Mapper evaluates mapping rules against source data. It is safe for
// concurrent use; parsed templates are cached per instance.
type Mapper struct {
	filters  map[string]FilterFunc
	strict   bool
	maxDepth int
	log      *slog.Logger

	mu    sync.RWMutex
	cache map[string][]templatePart
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithFilter registers a filter on this mapper only, shadowing any global
// filter of the same name.
func WithFilter(name string, fn FilterFunc) Option {
	return func(m *Mapper) { m.filters[name] = fn }
}

// WithStrict makes unresolved source paths fail the mapping instead of
// silently skipping the rule.
func WithStrict(strict bool) Option {
	return func(m *Mapper) { m.strict = strict }
}

// WithLogger sets a logger for debug tracing of rule evaluation, ignoring
// nil loggers.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mapper) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMaxDepth caps how deep target paths may nest.
func WithMaxDepth(depth int) Option {
	return func(m *Mapper) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

const defaultMaxDepth = 32

// New creates a Mapper with the global filter registry snapshotted at
// construction time.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		filters:  filterSnapshot(),
		maxDepth: defaultMaxDepth,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:    make(map[string][]templatePart),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map evaluates every rule (target path -> template) against src and
// returns the built target. Rules are applied in sorted target order so
// slice elements land deterministically.
func (m *Mapper) Map(src any, rules map[string]string) (map[string]any, error) {
	targets := make([]string, 0, len(rules))
	for t := range rules {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	var out any = map[string]any{}
	for _, target := range targets {
		if depth := len(accessor.SplitPath(target)); depth > m.maxDepth {
			return nil, fmt.Errorf("%w: target %s has %d segments", ErrMaxDepth, target, depth)
		}

		parts, err := m.parseTemplate(rules[target])
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", target, err)
		}

		if accessor.HasWildcard(target) {
			out, err = m.mapWildcardRule(src, out, target, parts)
		} else {
			out, err = m.mapScalarRule(src, out, target, parts)
		}
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", target, err)
		}
	}
	return out.(map[string]any), nil
}

// MapInto maps src and hydrates the result into dst, a struct pointer.
func (m *Mapper) MapInto(src any, rules map[string]string, dst any) error {
	out, err := m.Map(src, rules)
	if err != nil {
		return err
	}
	return dto.Hydrate(out, dst)
}

// Eval evaluates a single template string against src. Unresolved paths
// yield nil in lax mode.
func (m *Mapper) Eval(src any, template string) (any, error) {
	parts, err := m.parseTemplate(template)
	if err != nil {
		return nil, err
	}
	v, ok, err := m.evalTemplate(src, parts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *Mapper) mapScalarRule(src, out any, target string, parts []templatePart) (any, error) {
	v, ok, err := m.evalTemplate(src, parts)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.log.Debug("skipping unresolved rule", slog.String("target", target))
		return out, nil
	}
	m.log.Debug("mapped rule", slog.String("target", target))
	return mutator.Set(out, target, v)
}

// mapWildcardRule pairs a wildcard target with a wildcard source: the query
// result supplies one value per target element, filters applied per element.
func (m *Mapper) mapWildcardRule(src, out any, target string, parts []templatePart) (any, error) {
	if strings.Count(target, accessor.Wildcard) > 1 {
		return nil, fmt.Errorf("%w: multiple wildcards in target %s", ErrWildcardPairing, target)
	}
	if len(parts) != 1 || parts[0].e == nil {
		return nil, ErrWildcardPairing
	}
	e := parts[0].e
	if !accessor.HasWildcard(e.path) {
		return nil, fmt.Errorf("%w: source %s has no wildcard", ErrWildcardPairing, e.path)
	}

	elements, err := m.collect(src, e)
	if err != nil {
		return nil, err
	}
	m.log.Debug("mapped wildcard rule",
		slog.String("target", target),
		slog.Int("elements", len(elements)))

	segs := accessor.SplitPath(target)
	star := 0
	for i, seg := range segs {
		if seg == accessor.Wildcard {
			star = i
			break
		}
	}

	for i, el := range elements {
		v, err := applyFilters(el, e.filters)
		if err != nil {
			return nil, err
		}
		concrete := make([]string, len(segs))
		copy(concrete, segs)
		concrete[star] = fmt.Sprintf("%d", i)
		out, err = mutator.Set(out, accessor.JoinPath(concrete...), v)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// evalTemplate computes a whole template. A template that is exactly one
// placeholder keeps the expression's type; mixed templates concatenate into
// a string. The boolean reports whether anything resolved.
func (m *Mapper) evalTemplate(src any, parts []templatePart) (any, bool, error) {
	if len(parts) == 1 && parts[0].e != nil {
		return m.evalExpr(src, parts[0].e)
	}

	var b strings.Builder
	for _, part := range parts {
		if part.e == nil {
			b.WriteString(part.literal)
			continue
		}
		v, ok, err := m.evalExpr(src, part.e)
		if err != nil {
			return nil, false, err
		}
		if !ok || v == nil {
			continue
		}
		b.WriteString(cast.ToString(v))
	}
	return b.String(), true, nil
}

// evalExpr evaluates one expression. In lax mode a missing path still runs
// the pipeline with a nil input, so a trailing default filter can supply a
// value; the result only counts as resolved if something came out of it.
func (m *Mapper) evalExpr(src any, e *expr) (any, bool, error) {
	if accessor.HasWildcard(e.path) {
		elements, err := m.collect(src, e)
		if err != nil {
			return nil, false, err
		}
		v, err := applyFilters(elements, e.filters)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}

	v, ok := accessor.Get(src, e.path)
	if !ok {
		if m.strict {
			return nil, false, fmt.Errorf("%w: %s", ErrPathNotFound, e.path)
		}
		if len(e.filters) == 0 {
			return nil, false, nil
		}
		filtered, err := applyFilters(nil, e.filters)
		if err != nil {
			return nil, false, err
		}
		return filtered, filtered != nil, nil
	}

	filtered, err := applyFilters(v, e.filters)
	if err != nil {
		return nil, false, err
	}
	return filtered, true, nil
}

// collect resolves a wildcard path into its query-processed elements. The
// segments after the last wildcard project each element; the rest select
// the collection.
func (m *Mapper) collect(src any, e *expr) ([]any, error) {
	segs := accessor.SplitPath(e.path)
	last := -1
	for i, seg := range segs {
		if seg == accessor.Wildcard {
			last = i
		}
	}

	base := accessor.JoinPath(segs[:last+1]...)
	elements := applyQuery(accessor.GetAll(src, base), e)

	proj := segs[last+1:]
	if len(proj) == 0 {
		return elements, nil
	}

	projPath := accessor.JoinPath(proj...)
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		v, ok := accessor.Get(el, projPath)
		if !ok {
			if m.strict {
				return nil, fmt.Errorf("%w: %s under %s", ErrPathNotFound, projPath, base)
			}
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type templatePart struct {
	literal string
	e       *expr
}

// parseTemplate splits a template into literal and {{ expr }} parts,
// caching the result per template string.
func (m *Mapper) parseTemplate(tmpl string) ([]templatePart, error) {
	m.mu.RLock()
	cached, ok := m.cache[tmpl]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var parts []templatePart
	rest := tmpl
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			if rest != "" {
				parts = append(parts, templatePart{literal: rest})
			}
			break
		}
		if open > 0 {
			parts = append(parts, templatePart{literal: rest[:open]})
		}
		rest = rest[open+2:]
		closeIdx := strings.Index(rest, "}}")
		if closeIdx < 0 {
			return nil, fmt.Errorf("%w: unclosed placeholder in %q", ErrSyntax, tmpl)
		}
		e, err := parseExpression(rest[:closeIdx], m.filters)
		if err != nil {
			return nil, err
		}
		parts = append(parts, templatePart{e: e})
		rest = rest[closeIdx+2:]
	}
	if parts == nil {
		parts = []templatePart{{literal: ""}}
	}

	m.mu.Lock()
	m.cache[tmpl] = parts
	m.mu.Unlock()
	return parts, nil
}
