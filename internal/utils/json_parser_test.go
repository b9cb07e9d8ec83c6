package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftPayload struct {
	EmailDraft string `json:"emailDraft"`
}

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"emailDraft": "Hi Sam"}`,
			want:  "Hi Sam",
		},
		{
			name:  "JSON in markdown code block",
			input: "```json\n" + `{"emailDraft": "Dear team"}` + "\n```",
			want:  "Dear team",
		},
		{
			name:  "JSON with surrounding text",
			input: `Here is the draft: {"emailDraft": "Hello {name}"} hope it helps.`,
			want:  "Hello {name}",
		},
		{
			name:  "JSON with trailing comma",
			input: `{"emailDraft": "Thanks",}`,
			want:  "Thanks",
		},
		{
			name:  "JSON with unquoted keys",
			input: `{emailDraft: "Regards"}`,
			want:  "Regards",
		},
		{
			name:  "JSON with byte order mark",
			input: "\uFEFF" + `{"emailDraft": "Cheers"}`,
			want:  "Cheers",
		},
		{
			name:    "Empty string",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Invalid JSON",
			input:   "not json at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got draftPayload
			err := ParseAIJSON(tt.input, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.EmailDraft)
		})
	}
}

func TestExtractFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "JSON code block with json tag", input: "```json\n{\"test\": true}\n```", want: `{"test": true}`},
		{name: "JSON code block without tag", input: "```\n{\"test\": true}\n```", want: `{"test": true}`},
		{name: "Prose code block", input: "```\nnot json\n```", want: ""},
		{name: "No code block", input: `{"test": true}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFromMarkdown(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		open  rune
		close rune
		want  string
	}{
		{name: "Simple object", input: `{"a": 1} tail`, open: '{', close: '}', want: `{"a": 1}`},
		{name: "Nested objects", input: `{"a": {"b": 2}}`, open: '{', close: '}', want: `{"a": {"b": 2}}`},
		{name: "String containing braces", input: `{"text": "Hello {world}"}`, open: '{', close: '}', want: `{"text": "Hello {world}"}`},
		{name: "Escaped quote", input: `{"text": "say \"}\""}`, open: '{', close: '}', want: `{"text": "say \"}\""}`},
		{name: "Array", input: `[1, 2, 3]`, open: '[', close: ']', want: `[1, 2, 3]`},
		{name: "Unbalanced", input: `{"a": 1`, open: '{', close: '}', want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBalanced(tt.input, tt.open, tt.close))
		})
	}
}

func TestCleanAndFixJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Byte order mark", input: "\uFEFF{\"a\": 1}", want: `{"a": 1}`},
		{name: "Trailing comma", input: `{"a": 1,}`, want: `{"a": 1}`},
		{name: "Unquoted key", input: `{a: 1}`, want: `{"a": 1}`},
		{name: "Control characters", input: "{\"a\": \"x\x01y\"}", want: `{"a": "xy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanAndFixJSON(tt.input))
		})
	}
}
