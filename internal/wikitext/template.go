package wikitext

import (
	"fmt"
	"regexp"
	"strings"
)

// Argument is a single template argument. A positional argument has an empty
// Name; a named argument carries both Name and Value.
type Argument struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// Template represents a named marker template embedded in wiki markup,
// e.g. {{Contest entry|Alice|status=done}}.
type Template struct {
	Name string     `json:"name"`
	Args []Argument `json:"args"`
}

// Arg returns the value of the named argument, if present.
func (t *Template) Arg(name string) (string, bool) {
	for _, a := range t.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetArg sets a named argument, replacing an existing one in place or
// appending it at the end.
func (t *Template) SetArg(name, value string) {
	for i := range t.Args {
		if t.Args[i].Name == name {
			t.Args[i].Value = value
			return
		}
	}
	t.Args = append(t.Args, Argument{Name: name, Value: value})
}

// Render serializes the template into canonical marker syntax. Formatting is
// normalized, but argument order and values are preserved exactly, so parsing
// the rendered text yields a structurally identical template.
func (t *Template) Render() string {
	var b strings.Builder
	b.WriteString("{{")
	b.WriteString(t.Name)
	for _, a := range t.Args {
		b.WriteByte('|')
		if a.Name != "" {
			b.WriteString(a.Name)
			b.WriteByte('=')
		}
		b.WriteString(a.Value)
	}
	b.WriteString("}}")
	return b.String()
}

// Locate scans pageText for the first occurrence of a marker whose name
// matches name case-insensitively, treating internal whitespace and
// underscores as equivalent. The match is anchored at a marker opening:
// "{{" followed by the name followed by "|", "}" or whitespace, so partial
// name prefixes never match. Returns the offset of the "{{" and whether a
// match was found.
func Locate(pageText, name string) (int, bool) {
	pattern, err := locatePattern(name)
	if err != nil {
		return 0, false
	}
	loc := pattern.FindStringIndex(pageText)
	if loc == nil {
		return 0, false
	}
	return loc[0], true
}

func locatePattern(name string) (*regexp.Regexp, error) {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	if len(words) == 0 {
		return nil, fmt.Errorf("empty template name")
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\{\{[\s_]*` + strings.Join(quoted, `[\s_]+`) + `[\s_]*[|}\s]`)
}

// ParseAt parses the full balanced marker starting at pos, which must point
// at the opening "{{". Nested markers and wiki links inside argument values
// are consumed without splitting. It returns the parsed template and the
// length of the exact substring span consumed, needed to compute the
// replacement length on rewrite. A truncated or unbalanced marker is an
// error: a best-effort partial parse would risk a corrupting edit.
func ParseAt(pageText string, pos int) (*Template, int, error) {
	if pos < 0 || pos+2 > len(pageText) || pageText[pos:pos+2] != "{{" {
		return nil, 0, fmt.Errorf("no template opening at offset %d", pos)
	}

	text := pageText[pos:]
	braceDepth := 1 // the opening {{ itself
	bracketDepth := 0
	segStart := 2
	var segments []string

	i := 2
	for i < len(text) {
		switch {
		case strings.HasPrefix(text[i:], "{{"):
			braceDepth++
			i += 2
		case strings.HasPrefix(text[i:], "}}") && braceDepth > 0:
			braceDepth--
			i += 2
			if braceDepth == 0 {
				segments = append(segments, text[segStart:i-2])
				return assemble(segments, i)
			}
		case strings.HasPrefix(text[i:], "[["):
			bracketDepth++
			i += 2
		case strings.HasPrefix(text[i:], "]]") && bracketDepth > 0:
			bracketDepth--
			i += 2
		case text[i] == '|' && braceDepth == 1 && bracketDepth == 0:
			segments = append(segments, text[segStart:i])
			segStart = i + 1
			i++
		default:
			i++
		}
	}

	return nil, 0, fmt.Errorf("unbalanced template at offset %d", pos)
}

func assemble(segments []string, span int) (*Template, int, error) {
	name := strings.TrimSpace(segments[0])
	if name == "" {
		return nil, 0, fmt.Errorf("template has empty name")
	}

	t := &Template{Name: name}
	for _, seg := range segments[1:] {
		t.Args = append(t.Args, parseArgument(seg))
	}
	return t, span, nil
}

// parseArgument splits a raw argument segment into name and value. Only an
// "=" outside any nested structure separates them; an argument without one
// is positional.
func parseArgument(seg string) Argument {
	depth := 0
	for i := 0; i < len(seg); i++ {
		switch {
		case strings.HasPrefix(seg[i:], "{{") || strings.HasPrefix(seg[i:], "[["):
			depth++
			i++
		case strings.HasPrefix(seg[i:], "}}") || strings.HasPrefix(seg[i:], "]]"):
			depth--
			i++
		case seg[i] == '=' && depth == 0:
			return Argument{
				Name:  strings.TrimSpace(seg[:i]),
				Value: strings.TrimSpace(seg[i+1:]),
			}
		}
	}
	return Argument{Value: strings.TrimSpace(seg)}
}
