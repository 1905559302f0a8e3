package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPersonaExists(t *testing.T) {
	r := NewRegistry()
	p, ok := r.Get(DefaultKey)
	require.True(t, ok)
	assert.NotEmpty(t, p.Prompt["fr"])
	assert.NotEmpty(t, p.Prompt["en"])
}

func TestPromptUnknownKeyOrLanguage(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Prompt("nope", "en"))
	assert.Empty(t, r.Prompt(DefaultKey, "de"))
	assert.NotEmpty(t, r.Prompt(DefaultKey, "en"))
}

func TestOptionsOrderedAndLocalized(t *testing.T) {
	r := NewRegistry()

	fr := r.Options("fr")
	en := r.Options("en")
	require.Len(t, fr, 5)
	require.Len(t, en, 5)

	assert.Equal(t, DefaultKey, fr[0].Key)
	assert.Equal(t, "Coach pragmatique", fr[0].Name)
	assert.Equal(t, "Pragmatic Coach", en[0].Name)

	for i := range fr {
		assert.Equal(t, fr[i].Key, en[i].Key)
	}
}

func TestOptionsNameFallsBackToKey(t *testing.T) {
	r := NewRegistry()
	opts := r.Options("de")
	require.NotEmpty(t, opts)
	assert.Equal(t, opts[0].Key, opts[0].Name)
}
