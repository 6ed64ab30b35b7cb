package route

import (
	"fmt"
	"regexp"
	"strings"
)

var captureNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type pathSegment struct {
	name    string
	isParam bool
}

// Params holds the raw captures of a structural match. Typed parsing of the
// captures happens in the table entry that owns the pattern.
type Params map[string]string

func (p Params) Param(name string) (string, bool) {
	if p == nil {
		return "", false
	}

	value, ok := p[name]
	return value, ok
}

type entry[T interface{}] struct {
	pattern  string
	segments []pathSegment
	build    func(params Params) (T, bool)
}

// table is tried strictly in declaration order; the first entry whose
// pattern matches structurally and whose captures parse wins.
type table[T interface{}] struct {
	name    string
	entries []entry[T]
}

func on[T interface{}](pattern string, build func(params Params) (T, bool)) entry[T] {
	segments, err := parsePattern(pattern)
	if err != nil {
		panic(fmt.Sprintf("route: %v", err))
	}

	return entry[T]{pattern: pattern, segments: segments, build: build}
}

func static[T interface{}](pattern string, value T) entry[T] {
	return on(pattern, func(Params) (T, bool) { return value, true })
}

func newTable[T interface{}](name string, entries ...entry[T]) table[T] {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		key := patternKey(e.segments)
		if existing, ok := seen[key]; ok {
			panic(fmt.Sprintf("route: %s table pattern conflict: %q and %q", name, existing, e.pattern))
		}
		seen[key] = e.pattern
	}

	return table[T]{name: name, entries: entries}
}

func (t table[T]) match(requestPath string) (T, bool) {
	requestSegments := splitPathSegments(requestPath)

	for _, e := range t.entries {
		params, ok := matchSegments(e.segments, requestSegments)
		if !ok {
			continue
		}

		value, ok := e.build(params)
		if !ok {
			continue
		}
		return value, true
	}

	var zero T
	return zero, false
}

func (t table[T]) patterns() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.pattern)
	}
	return out
}

func matchSegments(segments []pathSegment, requestSegments []string) (Params, bool) {
	if len(segments) != len(requestSegments) {
		return nil, false
	}

	var params Params
	for idx, segment := range segments {
		requestValue := requestSegments[idx]
		if segment.isParam {
			if params == nil {
				params = make(Params, 2)
			}
			params[segment.name] = requestValue
			continue
		}
		if segment.name != requestValue {
			return nil, false
		}
	}

	return params, true
}

func parsePattern(pattern string) ([]pathSegment, error) {
	parts := splitPathSegments(pattern)
	segments := make([]pathSegment, 0, len(parts))
	for _, part := range parts {
		name, isParam, err := parseCaptureSegment(part)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if isParam {
			segments = append(segments, pathSegment{name: name, isParam: true})
			continue
		}
		segments = append(segments, pathSegment{name: part})
	}

	return segments, nil
}

func parseCaptureSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "<") || strings.HasSuffix(segment, ">") {
		if !strings.HasPrefix(segment, "<") || !strings.HasSuffix(segment, ">") {
			return "", false, fmt.Errorf("invalid capture segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !captureNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid capture name %q", name)
		}
		return name, true, nil
	}

	if strings.ContainsAny(segment, "<>") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func patternKey(segments []pathSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment.isParam {
			parts = append(parts, ":")
			continue
		}
		parts = append(parts, segment.name)
	}

	return "/" + strings.Join(parts, "/")
}

// splitPathSegments drops empty segments, so repeated and trailing slashes
// are ignored. Dot segments are kept literally and never resolved.
func splitPathSegments(raw string) []string {
	parts := strings.Split(raw, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}

	return segments
}
