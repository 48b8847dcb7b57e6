package ai

import (
	"regexp"
	"strings"
)

var (
	// fenceLine matches a markdown code fence with an optional language tag.
	fenceLine = regexp.MustCompile("^```[A-Za-z0-9_.+#]*$")
	// blankRuns matches three or more consecutive newlines.
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans up raw model output. In order it drops code fence lines,
// collapses runs of blank lines, turns `*` bullets into `- ` and trims the
// result. Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(raw string) string {
	s := stripFences(raw)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	s = replaceBullets(s)
	return strings.TrimSpace(s)
}

// stripFences removes fence lines and keeps whatever they wrapped.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if fenceLine.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// replaceBullets rewrites every run of '*' followed by spaces or tabs as "- ".
// A '*' directly after a backslash or an ASCII word character never starts a
// run, but the stars after it still can: "a** b" becomes "a*- b".
func replaceBullets(s string) string {
	if !strings.Contains(s, "*") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '*' {
			b.WriteByte(s[i])
			i++
			continue
		}

		if i > 0 && (s[i-1] == '\\' || isWordByte(s[i-1])) {
			b.WriteByte('*')
			i++
			continue
		}

		end := i
		for end < len(s) && s[end] == '*' {
			end++
		}
		ws := end
		for ws < len(s) && (s[ws] == ' ' || s[ws] == '\t') {
			ws++
		}

		if ws == end {
			b.WriteString(s[i:end])
		} else {
			b.WriteString("- ")
		}
		i = ws
	}

	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
