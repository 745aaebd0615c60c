package endpoint

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// PathKey identifies one addressable variant of an endpoint's data. It must
// hold a comparable value; anything else is replaced by its fmt form.
type PathKey = any

// Params are the request parameters for one action.
type Params map[string]any

// Resolver maps request params to a PathKey. It must be pure: equal params
// always yield equal keys.
type Resolver func(Params) PathKey

// DefaultPath is the key every request resolves to when no Resolver is set.
const DefaultPath = "default"

var namedParam = regexp.MustCompile(`(\(\?)?:\w+`)

func defaultResolver(Params) PathKey {
	return DefaultPath
}

// ParamResolver resolves to the value of a single param, or to the values of
// several params joined with "/".
func ParamResolver(keys ...string) Resolver {
	switch len(keys) {
	case 0:
		return defaultResolver
	case 1:
		key := keys[0]
		return func(p Params) PathKey {
			return p[key]
		}
	}
	return func(p Params) PathKey {
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprint(p[key])
		}
		return strings.Join(parts, "/")
	}
}

func normalizePath(key PathKey) PathKey {
	if key == nil {
		return nil
	}
	if !reflect.TypeOf(key).Comparable() {
		return fmt.Sprint(key)
	}
	// NaN never equals itself, so it could not be found again as a map key.
	switch v := reflect.ValueOf(key); v.Kind() {
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(v.Float()) {
			return fmt.Sprint(key)
		}
	case reflect.Complex64, reflect.Complex128:
		if c := v.Complex(); math.IsNaN(real(c)) || math.IsNaN(imag(c)) {
			return fmt.Sprint(key)
		}
	}
	return key
}

// Template is a parsed URL template with ":name" placeholders in its path.
type Template struct {
	raw      string
	segments []segment
	names    []string
}

type segment struct {
	text  string
	param string // placeholder key; empty for literal text
}

// ParseTemplate parses raw as a URL and records the placeholders found in its
// path. Placeholders outside the path (a host port, for instance) are left
// alone.
func ParseTemplate(raw string) (*Template, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url template %q: %w", raw, err)
	}

	start := pathStart(raw, u)
	end := len(raw)
	if i := strings.IndexAny(raw[start:], "?#"); i >= 0 {
		end = start + i
	}

	t := &Template{raw: raw}
	cursor := start
	for _, loc := range namedParam.FindAllStringIndex(raw[start:end], -1) {
		from, to := start+loc[0], start+loc[1]
		if from > cursor {
			t.segments = append(t.segments, segment{text: raw[cursor:from]})
		}
		match := raw[from:to]
		name := strings.TrimPrefix(strings.TrimPrefix(match, "(?"), ":")
		t.segments = append(t.segments, segment{text: match, param: name})
		t.names = append(t.names, name)
		cursor = to
	}

	head := segment{text: raw[:start]}
	tail := segment{text: raw[cursor:]}
	t.segments = append(append([]segment{head}, t.segments...), tail)
	return t, nil
}

// pathStart returns the offset of the first byte after the authority.
func pathStart(raw string, u *url.URL) int {
	if u.Host == "" && u.User == nil {
		return 0
	}
	i := strings.Index(raw, "//")
	if i < 0 {
		return 0
	}
	authority := i + 2
	if j := strings.IndexAny(raw[authority:], "/?#"); j >= 0 {
		return authority + j
	}
	return len(raw)
}

// Names returns the placeholder keys in the order they appear.
func (t *Template) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// String returns the raw template.
func (t *Template) String() string {
	return t.raw
}

// Build substitutes params into the placeholders. Values are path escaped;
// a placeholder without a matching param is kept verbatim.
func (t *Template) Build(params Params) string {
	var b strings.Builder
	b.Grow(len(t.raw))
	for _, seg := range t.segments {
		if seg.param == "" {
			b.WriteString(seg.text)
			continue
		}
		value, ok := params[seg.param]
		if !ok || value == nil {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(url.PathEscape(fmt.Sprint(value)))
	}
	return b.String()
}
