package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

func TestDefaultPolicyModes(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	cases := []struct {
		name  string
		input ModeInput
		want  domain.FallbackMode
	}{
		{
			name:  "tools on, english, plain query",
			input: ModeInput{ToolsEnabled: true, Text: "How do I rotate wheat?", Language: "en", DefaultLanguage: "en"},
			want:  domain.FallbackTooling,
		},
		{
			name:  "tools off",
			input: ModeInput{ToolsEnabled: false, Text: "How do I rotate wheat?", Language: "en", DefaultLanguage: "en"},
			want:  domain.FallbackRAG,
		},
		{
			name:  "translation request",
			input: ModeInput{ToolsEnabled: true, Text: "Please translate this to Hindi", Language: "en", DefaultLanguage: "en"},
			want:  domain.FallbackRAG,
		},
		{
			name:  "non-default language",
			input: ModeInput{ToolsEnabled: true, Text: "gehu ki kheti", Language: "hi", DefaultLanguage: "en"},
			want:  domain.FallbackRAG,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mode, err := engine.Mode(ctx, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, mode)
		})
	}
}

func TestCustomPolicyOverride(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, `
package dispatch_mode

default mode = "rag"
`)
	require.NoError(t, err)

	mode, err := engine.Mode(ctx, ModeInput{ToolsEnabled: true, Text: "anything", Language: "en", DefaultLanguage: "en"})
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackRAG, mode)
}
