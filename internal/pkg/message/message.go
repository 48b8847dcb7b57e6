// Package message parses generated commit messages and checks their headers
// against the conventional commit format.
package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// MaxSubjectLength is the recommended maximum length for commit header lines.
const MaxSubjectLength = 72

// headerRegex matches "<type>(<scope>)!: <subject>" with scope and marker optional.
var headerRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)(\(([^()]*)\))?(!)?:[ \t]*(.*)$`)

// Issue is one deviation from the conventional commit format.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// CommitMessage is a generated message split into its conventional commit parts.
type CommitMessage struct {
	Type     string
	Scope    string
	Breaking bool // "!" after the type/scope or a BREAKING CHANGE footer
	Subject  string
	Body     string
	Footer   string

	conventional bool
}

// Parse splits raw text into a CommitMessage. Text that does not start with a
// conventional header is kept whole as the subject.
func Parse(rawText string) *CommitMessage {
	cm := &CommitMessage{}

	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return cm
	}

	lines := strings.Split(rawText, "\n")
	cm.parseHeader(strings.TrimSpace(lines[0]))
	if len(lines) > 1 {
		cm.parseBodyAndFooter(lines[1:])
	}
	if hasBreakingFooter(cm.Footer) {
		cm.Breaking = true
	}

	return cm
}

func (cm *CommitMessage) parseHeader(header string) {
	m := headerRegex.FindStringSubmatch(header)
	if m == nil {
		cm.Subject = header
		return
	}

	cm.conventional = true
	cm.Type = m[1]
	cm.Scope = strings.TrimSpace(m[3])
	cm.Breaking = m[4] == "!"
	cm.Subject = strings.TrimSpace(m[5])
}

func (cm *CommitMessage) parseBodyAndFooter(lines []string) {
	var bodyLines, footerLines []string
	inFooter := false

	for _, line := range lines {
		if !inFooter && isFooterLine(strings.TrimSpace(line)) {
			inFooter = true
		}
		if inFooter {
			footerLines = append(footerLines, line)
		} else {
			bodyLines = append(bodyLines, line)
		}
	}

	cm.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	cm.Footer = strings.TrimSpace(strings.Join(footerLines, "\n"))
}

var footerPrefixes = []string{
	"BREAKING CHANGE:",
	"BREAKING-CHANGE:",
	"Refs:",
	"Closes:",
	"Fixes:",
	"Resolves:",
	"See:",
	"Co-authored-by:",
	"Signed-off-by:",
	"Reviewed-by:",
	"Acked-by:",
}

func isFooterLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, prefix := range footerPrefixes {
		if strings.HasPrefix(upper, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

func hasBreakingFooter(footer string) bool {
	for _, line := range strings.Split(footer, "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if strings.HasPrefix(upper, "BREAKING CHANGE:") || strings.HasPrefix(upper, "BREAKING-CHANGE:") {
			return true
		}
	}
	return false
}

// IsConventional reports whether the header matched the conventional format.
func (cm *CommitMessage) IsConventional() bool {
	return cm.conventional
}

// Header formats the first line of the message.
func (cm *CommitMessage) Header() string {
	if cm.Type == "" {
		return cm.Subject
	}

	var sb strings.Builder
	sb.WriteString(cm.Type)
	if cm.Scope != "" {
		sb.WriteString("(" + cm.Scope + ")")
	}
	if cm.Breaking {
		sb.WriteString("!")
	}
	sb.WriteString(": ")
	sb.WriteString(cm.Subject)
	return sb.String()
}

// Format returns the full message with blank lines between its parts.
func (cm *CommitMessage) Format() string {
	parts := []string{cm.Header()}
	if cm.Body != "" {
		parts = append(parts, "", cm.Body)
	}
	if cm.Footer != "" {
		parts = append(parts, "", cm.Footer)
	}
	return strings.Join(parts, "\n")
}

// Lint checks the message header against allowedTypes. An empty allowedTypes
// accepts any type. The result is informational; callers only log it.
func (cm *CommitMessage) Lint(allowedTypes []string) []Issue {
	var issues []Issue

	if !cm.conventional {
		return append(issues, Issue{Field: "header", Message: "does not follow <type>(<scope>): <subject>"})
	}

	if len(allowedTypes) > 0 && !slices.Contains(allowedTypes, cm.Type) {
		issues = append(issues, Issue{
			Field:   "type",
			Message: fmt.Sprintf("%q is not one of %s", cm.Type, strings.Join(allowedTypes, ", ")),
		})
	}
	if cm.Scope == "" {
		issues = append(issues, Issue{Field: "scope", Message: "missing scope"})
	}
	if cm.Subject == "" {
		issues = append(issues, Issue{Field: "subject", Message: "missing subject"})
	}
	if cm.Breaking {
		issues = append(issues, Issue{Field: "breaking", Message: "marks a breaking change"})
	}
	if n := len([]rune(cm.Header())); n > MaxSubjectLength {
		issues = append(issues, Issue{
			Field:   "header",
			Message: fmt.Sprintf("exceeds %d characters (%d chars)", MaxSubjectLength, n),
		})
	}

	return issues
}

// Lint parses text and checks it against allowedTypes.
func Lint(text string, allowedTypes []string) []Issue {
	return Parse(text).Lint(allowedTypes)
}
