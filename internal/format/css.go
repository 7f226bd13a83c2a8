package format

import (
	"regexp"
	"strings"
)

var (
	cssOpenBrace  = regexp.MustCompile(`\s*\{\s*`)
	cssSemicolon  = regexp.MustCompile(`;\s*`)
	cssCloseBrace = regexp.MustCompile(`\s*\}\s*`)
	cssBlankLines = regexp.MustCompile(`\n\s*\n`)
)

func formatCSS(src string) string {
	src = cssOpenBrace.ReplaceAllString(src, " {\n")
	src = cssSemicolon.ReplaceAllString(src, ";\n")
	src = cssCloseBrace.ReplaceAllString(src, "\n}\n")
	src = strings.TrimSpace(cssBlankLines.ReplaceAllString(src, "\n"))

	w := &writer{}
	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case line == "}":
			w.dedent()
			w.line(line)
		case strings.HasSuffix(line, "{"):
			w.line(line)
			w.indent()
		default:
			w.line(line)
		}
	}
	return w.String()
}
