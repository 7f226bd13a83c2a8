package format

import (
	"regexp"
	"strings"
)

var (
	interTagSpace = regexp.MustCompile(`>\s+<`)
	spaceRun      = regexp.MustCompile(`\s+`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	tagNameRe     = regexp.MustCompile(`^<(\w+)`)
)

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

func formatHTML(src string) string {
	src = interTagSpace.ReplaceAllString(src, "><")
	src = strings.TrimSpace(spaceRun.ReplaceAllString(src, " "))

	w := &writer{}
	for _, tok := range splitTags(src) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch {
		case strings.HasPrefix(tok, "</"):
			w.dedent()
			w.line(tok)
		case strings.HasPrefix(tok, "<"):
			w.line(tok)
			if opensBlock(tok) {
				w.indent()
			}
		default:
			w.line(tok)
		}
	}
	return w.String()
}

// splitTags splits s into alternating text and tag tokens, keeping the tags.
func splitTags(s string) []string {
	var parts []string
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			parts = append(parts, s[last:loc[0]])
		}
		parts = append(parts, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

// opensBlock reports whether an opening tag starts a nested level.
// Self-closing tags, void elements, doctype declarations and comments do not.
func opensBlock(tag string) bool {
	if strings.HasSuffix(tag, "/>") || strings.HasPrefix(tag, "<!") || strings.HasPrefix(tag, "<?") {
		return false
	}
	m := tagNameRe.FindStringSubmatch(tag)
	if m == nil {
		return true
	}
	_, void := voidElements[strings.ToLower(m[1])]
	return !void
}
