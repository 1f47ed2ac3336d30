package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFactsSource_Load(t *testing.T) {
	docs, err := NewPolicyFactsSource().Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, len(policyFacts))

	for _, doc := range docs {
		assert.NotEmpty(t, doc.ID)
		assert.NotEmpty(t, doc.Source)
		assert.NotEmpty(t, doc.Content)
		assert.NotEmpty(t, doc.URL)
		assert.Equal(t, 1.0, doc.Confidence)
		assert.NotNil(t, doc.Metadata["year"])
	}

	chips := docs[0]
	assert.Equal(t, "EU Chips Act 2023", chips.Source)
	assert.Contains(t, chips.Content, "€43 billion")
	assert.Equal(t, "policy", chips.Metadata["type"])
}

func TestPolicyFactsSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPolicyFactsSource().Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultSet_OrderIsStable(t *testing.T) {
	set := DefaultSet("data", DefaultChunkOptions())
	require.Len(t, set, 6)

	names := make([]string, len(set))
	for i, src := range set {
		names[i] = src.Name()
	}
	assert.Equal(t, []string{
		"fab-capacity",
		"material-catalog",
		"energy-prices",
		"policy-facts",
		"source-notes",
		"reports",
	}, names)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "abcd", truncate("abcd", 0))

	// Never splits a multi-byte rune.
	s := "héllo"
	out := truncate(s, 2)
	assert.Equal(t, "h", out)
}
