package goal

import "testing"

func TestExtractSummary(t *testing.T) {
	tests := []struct {
		name string
		plan string
		want string
		ok   bool
	}{
		{
			name: "heading and paragraph",
			plan: "# Title\n\nBody line.\n\n## Details\nMore.",
			want: "Title\n\nBody line.",
			ok:   true,
		},
		{
			name: "paragraph directly under heading",
			plan: "# Title\nBody line.\nSecond line.\n\nRest.",
			want: "Title\n\nBody line.\nSecond line.",
			ok:   true,
		},
		{
			name: "heading only",
			plan: "# Just a title",
			want: "Just a title",
			ok:   true,
		},
		{
			name: "heading with trailing newline only",
			plan: "# Just a title\n",
			want: "Just a title",
			ok:   true,
		},
		{
			name: "no heading",
			plan: "plain text without a heading",
			ok:   false,
		},
		{
			name: "heading not at start",
			plan: "intro\n# Title\n\nBody.",
			ok:   false,
		},
		{
			name: "second level heading",
			plan: "## Not top level\n\nBody.",
			ok:   false,
		},
		{
			name: "empty plan",
			plan: "",
			ok:   false,
		},
		{
			name: "empty heading",
			plan: "# \n\nBody.",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSummary(tt.plan)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v (summary %q)", tt.ok, ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("Expected summary %q, got %q", tt.want, got)
			}
		})
	}
}
