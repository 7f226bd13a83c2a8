package format

import "strings"

// formatJavaScript tracks braces per line. Blank lines are kept.
func formatJavaScript(src string) string {
	w := &writer{}
	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			w.blank()
			continue
		}
		if strings.HasPrefix(line, "}") {
			w.dedent()
		}
		w.line(line)
		if strings.HasSuffix(line, "{") {
			w.indent()
		}
	}
	return w.String()
}
