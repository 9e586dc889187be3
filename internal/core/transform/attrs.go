package transform

import (
	"fmt"
	"regexp"
	"strings"

	"etemplate-service/internal/core/domain"
)

var attrPattern = regexp.MustCompile(`(?i)(^|\s)([a-z\d_-]+)="([^"]*)"`)

type attr struct {
	name  string
	value string
}

// Attrs is an ordered set of tag attributes.
type Attrs struct {
	list []attr
}

// ParseAttrs reads all name="value" pairs from the inside of a tag.
func ParseAttrs(s string) (*Attrs, error) {
	matches := attrPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w from '%s'", domain.ErrAttributeParse, s)
	}
	a := &Attrs{list: make([]attr, 0, len(matches))}
	for _, m := range matches {
		a.Set(m[2], m[3])
	}
	return a, nil
}

func (a *Attrs) index(name string) int {
	for i := range a.list {
		if a.list[i].name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of name, or "" when it is not set.
func (a *Attrs) Get(name string) string {
	if i := a.index(name); i >= 0 {
		return a.list[i].value
	}
	return ""
}

// Lookup returns the value of name and whether it is set.
func (a *Attrs) Lookup(name string) (string, bool) {
	if i := a.index(name); i >= 0 {
		return a.list[i].value, true
	}
	return "", false
}

func (a *Attrs) Has(name string) bool {
	return a.index(name) >= 0
}

// Set overwrites name in place or appends it.
func (a *Attrs) Set(name, value string) {
	if i := a.index(name); i >= 0 {
		a.list[i].value = value
		return
	}
	a.list = append(a.list, attr{name: name, value: value})
}

func (a *Attrs) Delete(names ...string) {
	for _, name := range names {
		if i := a.index(name); i >= 0 {
			a.list = append(a.list[:i], a.list[i+1:]...)
		}
	}
}

// Names returns a snapshot of the attribute names in order.
func (a *Attrs) Names() []string {
	names := make([]string, len(a.list))
	for i := range a.list {
		names[i] = a.list[i].name
	}
	return names
}

func (a *Attrs) Len() int {
	return len(a.list)
}

// String renders the attributes as name="value" pairs separated by a space.
func (a *Attrs) String() string {
	var b strings.Builder
	for i, at := range a.list {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(at.name)
		b.WriteString(`="`)
		b.WriteString(at.value)
		b.WriteByte('"')
	}
	return b.String()
}

// CSVSplit splits a comma separated legacy options string. Parts enclosed in
// double quotes may contain commas. With max > 0 at most max parts are
// returned, the last one holding the rest of the string.
func CSVSplit(s string, max int) []string {
	if !strings.Contains(s, `"`) {
		if max > 0 {
			return strings.SplitN(s, ",", max)
		}
		return strings.Split(s, ",")
	}

	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for n := 0; n < len(raw); n++ {
		part := raw[n]
		if strings.HasPrefix(part, `"`) {
			for n+1 < len(raw) && (len(part) < 2 || !strings.HasSuffix(part, `"`)) {
				n++
				part += "," + raw[n]
			}
			part = strings.ReplaceAll(part, `""`, `"`)
			part = strings.TrimPrefix(part, `"`)
			part = strings.TrimSuffix(part, `"`)
		}
		parts = append(parts, part)
	}

	if max > 0 && len(parts) > max {
		rest := strings.Join(parts[max-1:], ",")
		parts = append(parts[:max-1], rest)
	}
	return parts
}

// intval reads the leading integer of s, 0 if there is none.
func intval(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	n, i, neg := 0, 0, false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
