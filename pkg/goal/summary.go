package goal

import "strings"

// ExtractSummary derives a short human-readable summary from plan markdown.
// The plan must begin with a top-level heading ("# Title"); the run of
// non-blank lines that follows (after any blank separation) becomes the
// description. The result is "title\n\ndescription", or just the title when no
// paragraph follows. Content that does not start with a top-level heading
// yields ok=false: plans without that shape are summary-less.
func ExtractSummary(plan string) (string, bool) {
	rest, ok := strings.CutPrefix(plan, "# ")
	if !ok {
		return "", false
	}
	heading, body, _ := strings.Cut(rest, "\n")
	title := strings.TrimSpace(heading)
	if title == "" {
		return "", false
	}

	lines := strings.Split(body, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	var para []string
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			break
		}
		para = append(para, line)
	}
	if len(para) == 0 {
		return title, true
	}
	return title + "\n\n" + strings.Join(para, "\n"), true
}
