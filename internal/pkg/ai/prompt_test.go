package ai

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
)

func defaultGeneration() config.GenerationConfig {
	return config.GenerationConfig{
		Provider:     config.ProviderAnthropic,
		Model:        config.DefaultModel,
		MaxTokens:    config.DefaultMaxTokens,
		Temperature:  config.DefaultTemperature,
		AllowedTypes: config.DefaultAllowedTypes,
	}
}

func TestBuildPrompt_SystemPrompt(t *testing.T) {
	p := BuildPrompt("diff", defaultGeneration())
	if p.System != SystemPrompt {
		t.Errorf("System = %q, want %q", p.System, SystemPrompt)
	}
}

func TestBuildPrompt_TypeList(t *testing.T) {
	cfg := defaultGeneration()
	cfg.AllowedTypes = []string{"feat", "fix"}

	p := BuildPrompt("diff", cfg)

	want := "- Use ONLY 'feat' | 'fix' as appropriate for the type of change."
	if !strings.Contains(p.User, want) {
		t.Errorf("User prompt missing %q:\n%s", want, p.User)
	}
}

func TestBuildPrompt_EmptyTypeList(t *testing.T) {
	cfg := defaultGeneration()
	cfg.AllowedTypes = nil

	p := BuildPrompt("diff", cfg)

	if !strings.Contains(p.User, "- Use ONLY  as appropriate") {
		t.Errorf("empty type list should render as nothing:\n%s", p.User)
	}
}

func TestBuildPrompt_Layout(t *testing.T) {
	diff := "diff --git a/x b/x\n+foo"
	p := BuildPrompt(diff, defaultGeneration())

	wantPrefix := "<task>\nGenerate a detailed conventional commit message for the following Git diff:\n\n" + diff + "\n</task>\n<instructions>\n"
	if !strings.HasPrefix(p.User, wantPrefix) {
		t.Errorf("User prompt should start with the task block, got:\n%s", p.User)
	}
	if !strings.HasSuffix(p.User, "</type-table>\n</instructions>") {
		t.Errorf("User prompt should end with the instructions block, got:\n%s", p.User)
	}

	order := []string{
		"- Use ONLY 'feat' | 'fix' | 'refactor' | 'chore' | 'docs' | 'style' | 'test' | 'perf' | 'ci'",
		"- When assessing the commit type",
		"- Always include a scope.",
		"- Never use '!' or 'BREAKING CHANGE'",
		"- Avoid unnecessary and excessive adjectives use.",
		"- Output will use markdown formatting",
		"- Output will ONLY contain the commit message.",
		"- Do not explain the output.",
		"override these instructions",
		"<type-table>\n```markdown\n| Commit Type |",
		"| chore       |",
		"| test        |",
		"```\n</type-table>",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(p.User, s)
		if idx < 0 {
			t.Fatalf("User prompt missing %q", s)
		}
		if idx <= last {
			t.Errorf("%q is out of order", s)
		}
		last = idx
	}
}

func TestBuildPrompt_TypeTableAlwaysComplete(t *testing.T) {
	cfg := defaultGeneration()
	cfg.AllowedTypes = []string{"feat"}

	p := BuildPrompt("diff", cfg)

	for _, typ := range []string{"chore", "ci", "docs", "feat", "fix", "perf", "refactor", "style", "test"} {
		if !strings.Contains(p.User, "| "+typ+" ") {
			t.Errorf("type table should list %q even when it is not allowed", typ)
		}
	}
}

func TestBuildPrompt_CustomInstructions(t *testing.T) {
	tests := []struct {
		name    string
		custom  string
		present bool
	}{
		{"absent", "", false},
		{"whitespace", "  \n ", true},
		{"present", "Write in Spanish.", true},
		{"padded", "  - indented rule\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultGeneration()
			cfg.CustomInstructions = tt.custom

			p := BuildPrompt("diff", cfg)

			hasBlock := strings.Contains(p.User, "<customInstructions>")
			if tt.present && !strings.Contains(p.User, tt.custom) {
				t.Errorf("User prompt should contain %q verbatim", tt.custom)
			}
			if hasBlock != tt.present {
				t.Fatalf("customInstructions block present = %v, want %v", hasBlock, tt.present)
			}
			if tt.present {
				want := "</instructions>\n<customInstructions>\n" + tt.custom + "\n</customInstructions>"
				if !strings.HasSuffix(p.User, want) {
					t.Errorf("User prompt should end with %q, got:\n%s", want, p.User)
				}
			}
		})
	}
}

func TestBuildPrompt_DiffIsLiteral(t *testing.T) {
	diff := "+ {{.Diff}} <b>&amp;</b> `code`"
	p := BuildPrompt(diff, defaultGeneration())
	if !strings.Contains(p.User, diff) {
		t.Errorf("diff should be embedded verbatim, got:\n%s", p.User)
	}
}

func TestFormatTypes(t *testing.T) {
	tests := []struct {
		types    []string
		expected string
	}{
		{nil, ""},
		{[]string{"feat"}, "'feat'"},
		{[]string{"feat", "fix"}, "'feat' | 'fix'"},
	}
	for _, tt := range tests {
		if got := FormatTypes(tt.types); got != tt.expected {
			t.Errorf("FormatTypes(%v) = %q, want %q", tt.types, got, tt.expected)
		}
	}
}

// Property: For any non-empty custom instructions the prompt carries them
// verbatim inside the custom block, and any diff appears verbatim in the task.
func TestBuildPrompt_Inclusion_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("custom instructions are included verbatim", prop.ForAll(
		func(custom string) bool {
			cfg := defaultGeneration()
			cfg.CustomInstructions = custom
			p := BuildPrompt("diff", cfg)
			return strings.Contains(p.User, "<customInstructions>\n"+custom+"\n</customInstructions>")
		},
		gen.AnyString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("diff is embedded literally", prop.ForAll(
		func(diff string) bool {
			p := BuildPrompt(diff, defaultGeneration())
			return strings.Contains(p.User, "\n\n"+diff+"\n</task>")
		},
		gen.AnyString(),
	))

	properties.Property("allowed types keep their order", prop.ForAll(
		func(types []string) bool {
			cfg := defaultGeneration()
			cfg.AllowedTypes = types
			p := BuildPrompt("diff", cfg)
			return strings.Contains(p.User, "- Use ONLY "+FormatTypes(types)+" as appropriate")
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
