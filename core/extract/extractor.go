// Package extract implements the Extractor and PenFetcher interfaces.
// A pen page carries its data in an inline script as
//
//	"__item":"{\"title\":\"...\",\"html\":\"...\"}"
//
// i.e. a JSON document encoded as a JSON string value, so the payload has to
// be located with an escape-aware match and decoded twice. The page layout is
// not a public contract; any unexpected shape is reported as core.ErrExtraction.
package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/normalize"
)

const (
	itemKey     = "__item"
	profiledKey = "__profiled"

	defaultTitle        = "Untitled"
	defaultPreProcessor = "none"
	defaultResourceType = "js"
)

var (
	// itemRegex captures the string value of "__item". The value may contain
	// escaped quotes; it ends at the first quote not preceded by a backslash.
	itemRegex = regexp.MustCompile(`(?s)"` + itemKey + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)

	// profiledRegex captures the inline object value of "__profiled".
	// It stops at the first '}', so only flat objects are supported.
	profiledRegex = regexp.MustCompile(`"` + profiledKey + `"\s*:\s*(\{[^}]+\})`)
)

// PenExtractor decodes pen pages.
type PenExtractor struct{}

// New creates a PenExtractor.
func New() *PenExtractor {
	return &PenExtractor{}
}

// Extract decodes the item payload in html and assembles the Pen for the
// canonical penURL. The author comes from the profiled payload when there is
// a usable one, otherwise from the username in penURL.
func (e *PenExtractor) Extract(html string, penURL string) (*core.Pen, error) {
	raw, err := ItemJSON(html)
	if err != nil {
		return nil, err
	}

	it, err := decodeItem(raw)
	if err != nil {
		return nil, err
	}

	pen, err := it.pen()
	if err != nil {
		return nil, err
	}
	pen.PenURL = penURL

	base := baseURL(penURL)
	if author, ok := ProfiledAuthor(html, base); ok {
		pen.Author = &author
	} else if username := normalize.Username(penURL); username != "" {
		pen.Author = &core.Author{
			Username: username,
			Name:     username,
			URL:      base + "/" + username,
		}
	}

	return pen, nil
}

// ItemJSON finds the item payload in html and returns it un-escaped, ready
// for JSON parsing.
func ItemJSON(html string) (string, error) {
	m := itemRegex.FindStringSubmatch(html)
	if m == nil {
		return "", core.Extraction(nil, "could not find %s in pen page; CodePen may have changed their page structure", itemKey)
	}
	return unescapeJSONString(m[1]), nil
}

// unescapeJSONString reverses the string-literal escaping of the payload in
// a single left-to-right pass. A "\\" pair is consumed before the character
// after it is looked at, so "\\n" yields a backslash and an 'n', never a
// newline. Escapes other than \\ \" \n \r \t are kept as they are; they are
// valid inside the inner document and the second JSON pass decodes them.
func unescapeJSONString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch next := s[i]; next {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}
	return b.String()
}

// ProfiledAuthor reads the optional profiled payload. Any problem (missing
// key, bad JSON, no username) yields ok == false and is otherwise ignored.
func ProfiledAuthor(html string, base string) (author core.Author, ok bool) {
	m := profiledRegex.FindStringSubmatch(html)
	if m == nil {
		return core.Author{}, false
	}

	var profiled struct {
		Username string  `json:"username"`
		Name     *string `json:"name"`
	}
	if err := json.Unmarshal([]byte(m[1]), &profiled); err != nil {
		return core.Author{}, false
	}
	if profiled.Username == "" {
		return core.Author{}, false
	}

	name := profiled.Username
	if profiled.Name != nil {
		name = *profiled.Name
	}
	return core.Author{
		Username: profiled.Username,
		Name:     name,
		URL:      base + "/" + profiled.Username,
	}, true
}

// item is the decoded payload.
type item map[string]any

func decodeItem(raw string) (item, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, core.Extraction(err, "failed to parse pen %s JSON", itemKey)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, core.Extraction(nil, "pen %s is not an object (got %s)", itemKey, jsonType(v))
	}
	return item(obj), nil
}

func (it item) pen() (*core.Pen, error) {
	pen := &core.Pen{}

	fields := []struct {
		key string
		def string
		dst *string
	}{
		{"title", defaultTitle, &pen.Title},
		{"description", "", &pen.Description},
		{"html", "", &pen.HTML},
		{"css", "", &pen.CSS},
		{"js", "", &pen.JS},
		{"html_pre_processor", defaultPreProcessor, &pen.HTMLPreProcessor},
		{"css_pre_processor", defaultPreProcessor, &pen.CSSPreProcessor},
		{"js_pre_processor", defaultPreProcessor, &pen.JSPreProcessor},
		{"hashid", "", &pen.HashID},
	}
	for _, f := range fields {
		s, err := stringField(it, "", f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}

	tags, err := it.tags()
	if err != nil {
		return nil, err
	}
	pen.Tags = tags

	resources, err := it.resources()
	if err != nil {
		return nil, err
	}
	pen.Resources = resources

	return pen, nil
}

// tags returns an empty list unless the value is an array; the array itself
// must hold only strings.
func (it item) tags() ([]string, error) {
	arr, ok := it["tags"].([]any)
	if !ok {
		return []string{}, nil
	}
	tags := make([]string, 0, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, fieldError(fmt.Sprintf("tags[%d]", i), "string", v)
		}
		tags = append(tags, s)
	}
	return tags, nil
}

func (it item) resources() ([]core.Resource, error) {
	v, present := it["resources"]
	if !present || v == nil {
		return []core.Resource{}, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fieldError("resources", "array", v)
	}

	resources := make([]core.Resource, 0, len(arr))
	for i, rv := range arr {
		key := fmt.Sprintf("resources[%d]", i)
		obj, ok := rv.(map[string]any)
		if !ok {
			return nil, fieldError(key, "object", rv)
		}
		u, err := stringField(obj, key+".", "url", "")
		if err != nil {
			return nil, err
		}
		typ, err := stringField(obj, key+".", "resource_type", defaultResourceType)
		if err != nil {
			return nil, err
		}
		ord, err := order(obj["order"], key+".order")
		if err != nil {
			return nil, err
		}
		resources = append(resources, core.Resource{
			URL:   u,
			Type:  typ,
			Order: ord,
		})
	}
	return resources, nil
}

// stringField returns obj[key], def when it is absent or null, and an
// extraction error naming prefix+key when it holds anything but a string.
func stringField(obj map[string]any, prefix, key string, def string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fieldError(prefix+key, "string", v)
	}
	return s, nil
}

// order is 0 for anything that is not a number. A number must be a whole
// value that fits in an int; it is never rounded or wrapped.
func order(v any, field string) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, nil
	}
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fieldError(field, "integer", v)
	}
	return int(f), nil
}

type fieldErr struct {
	field string
	want  string
	got   string
}

func (e *fieldErr) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %s", e.field, e.want, e.got)
}

func fieldError(field, want string, v any) error {
	return core.Extraction(&fieldErr{field: field, want: want, got: jsonType(v)}, "unexpected pen %s shape", itemKey)
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// baseURL returns scheme://host of the canonical pen URL.
func baseURL(penURL string) string {
	u, err := url.Parse(penURL)
	if err != nil || u.Host == "" {
		return core.DefaultBaseURL
	}
	return u.Scheme + "://" + u.Host
}
