package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripMarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json",
			input: `{"titles":["a"]}`,
			want:  `{"titles":["a"]}`,
		},
		{
			name:  "fenced json",
			input: "```json\n{\"titles\":[\"a\"]}\n```",
			want:  `{"titles":["a"]}`,
		},
		{
			name:  "prose around json",
			input: "Here you go:\n{\"best\":\"Title\"}\nHope that helps!",
			want:  `{"best":"Title"}`,
		},
		{
			name:  "no json at all",
			input: "no braces here",
			want:  "no braces here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, stripMarkdownCodeBlock(tt.input))
		})
	}
}
