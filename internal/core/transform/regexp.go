package transform

import (
	"regexp"
	"strings"
)

// replaceFunc gets the full match at m[0] and the groups after it; groups
// that did not participate are "".
type replaceFunc func(m []string) (string, error)

// replaceAllSubmatch is regexp.ReplaceAllStringFunc with access to the
// submatches and a way to abort the whole pass.
func replaceAllSubmatch(re *regexp.Regexp, src string, fn replaceFunc) (string, error) {
	idx := re.FindAllStringSubmatchIndex(src, -1)
	if idx == nil {
		return src, nil
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	m := make([]string, re.NumSubexp()+1)
	for _, loc := range idx {
		for g := range m {
			if loc[2*g] < 0 {
				m[g] = ""
				continue
			}
			m[g] = src[loc[2*g]:loc[2*g+1]]
		}
		repl, err := fn(m)
		if err != nil {
			return "", err
		}
		b.WriteString(src[last:loc[0]])
		b.WriteString(repl)
		last = loc[1]
	}
	b.WriteString(src[last:])
	return b.String(), nil
}
