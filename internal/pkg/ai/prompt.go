package ai

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
)

// SystemPrompt is sent unchanged to every backend.
const SystemPrompt = "You are a seasoned software engineer with more than 25 years of experience with an extraordinary ability for assessing and interpreting git diffs and writing detailed conventional commit messages and following 'instructions' and 'customInstructions' when generating them."

// typeTable is always sent in full, whatever the allowed types are.
const typeTable = "```markdown\n" +
	"| Commit Type | Typical Use Case                   | When to Use                                                                                                                                                             |\n" +
	"| ----------- | ---------------------------------- | ----------------------------------------------------------------------------------------------------------------------------------------------------------------------- |\n" +
	"| chore       | Routine maintenance or updates     | Use when updating configs or non-code changes. (eg updating dependencies, modifying configs, updating types, etc.)                                                      |\n" +
	"| ci          | Continuous integration adjustments | Use when updating CI/CD config files. (eg GitHub Actions, Workflows, Pipelines, etc.)                                                                                   |\n" +
	"| docs        | Documentation-only changes         | Use only when updating or adding documentation, comments, or README files. (Do NOT use when adding or updating page content in web apps. eg Astro content collections.) |\n" +
	"| feat        | New feature                        | Use only when adding new, user-facing feature or functionality or a fundamental change in an existing feature's functionality.                                          |\n" +
	"| fix         | Bug fix                            | Use when fixing a bug or issue in code that may or may not affect functionality.                                                                                        |\n" +
	"| perf        | Performance improvement            | Use when improving performance. (eg by optimising code.)                                                                                                                |\n" +
	"| refactor    | Code restructuring                 | Use when restructuring code without changing functionality or fixing bugs. (This can include significant code changes like abstracting code to its own component.)      |\n" +
	"| style       | Code formatting or styling         | Use when code changes do not affect functionality. (eg linting, formatting adjustments, colour, margin, padding, etc.)                                                  |\n" +
	"| test        | Adding or updating tests           | Use when adding, updating, or removing tests.                                                                                                                           |\n" +
	"```"

// userPromptTemplate renders the user turn. The diff is inserted verbatim.
const userPromptTemplate = `<task>
Generate a detailed conventional commit message for the following Git diff:

{{.Diff}}
</task>
<instructions>
- Use ONLY {{.Types}} as appropriate for the type of change.
- When assessing the commit type, consider actual impact of the commit. Refer to the "type-table" below for further guidance on the default commit types.
- Always include a scope.
- Never use '!' or 'BREAKING CHANGE' in the commit message.
- Avoid unnecessary and excessive adjectives use. (eg 'enhance', 'comprehensive', etc.)
- Output will use markdown formatting for lists etc.
- Output will ONLY contain the commit message.
- Do not explain the output.
- "customInstructions" override these instructions if they are provided and conflict.

<type-table>
{{.TypeTable}}
</type-table>
</instructions>
{{- if .CustomInstructions}}
<customInstructions>
{{.CustomInstructions}}
</customInstructions>
{{- end}}`

var userPrompt = template.Must(template.New("user").Parse(userPromptTemplate))

// Prompt is the pair of texts sent to a backend.
type Prompt struct {
	System string
	User   string
}

// promptData contains the data used to render the user prompt template.
type promptData struct {
	Diff               string
	Types              string
	TypeTable          string
	CustomInstructions string
}

// FormatTypes renders allowed types as 'a' | 'b' | 'c'.
func FormatTypes(types []string) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = "'" + t + "'"
	}
	return strings.Join(quoted, " | ")
}

// BuildPrompt renders the system and user prompts for a diff.
// It has no side effects and never fails.
func BuildPrompt(diff string, cfg config.GenerationConfig) Prompt {
	data := promptData{
		Diff:               diff,
		Types:              FormatTypes(cfg.AllowedTypes),
		TypeTable:          typeTable,
		CustomInstructions: cfg.CustomInstructions,
	}

	var buf bytes.Buffer
	// The template only touches string fields, so Execute cannot fail.
	_ = userPrompt.Execute(&buf, data)

	return Prompt{
		System: SystemPrompt,
		User:   buf.String(),
	}
}
