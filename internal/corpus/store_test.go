package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource yields fixed documents or a fixed error.
type fakeSource struct {
	name string
	docs []Document
	err  error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Load(_ context.Context) ([]Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func docsFor(source string, contents ...string) []Document {
	docs := make([]Document, len(contents))
	for i, c := range contents {
		docs[i] = NewDocument(source, c)
	}
	return docs
}

func TestIngest_AllSourcesLoad(t *testing.T) {
	store := NewStore([]Source{
		&fakeSource{name: "a", docs: docsFor("A", "doc one", "doc two")},
		&fakeSource{name: "b", docs: docsFor("B", "doc three")},
	}, nil)

	result := store.Ingest(context.Background())

	assert.Equal(t, 2, result.TotalSources)
	assert.Equal(t, 2, result.LoadedSources)
	assert.Equal(t, 3, result.TotalDocs)
	assert.Empty(t, result.FailedSources)
	assert.False(t, result.Placeholder)
	assert.Equal(t, 3, store.Len())
}

func TestIngest_FailureIsolated(t *testing.T) {
	store := NewStore([]Source{
		&fakeSource{name: "broken", err: errors.New("file not found")},
		&fakeSource{name: "ok", docs: docsFor("OK", "survivor")},
	}, nil)

	result := store.Ingest(context.Background())

	assert.Equal(t, 1, result.LoadedSources)
	assert.Equal(t, 1, result.TotalDocs)
	require.Len(t, result.FailedSources, 1)
	assert.Equal(t, "broken", result.FailedSources[0].Name)
	assert.Contains(t, result.FailedSources[0].Reason, "file not found")
	assert.False(t, result.Placeholder)
}

func TestIngest_AllFail_PlaceholderCorpus(t *testing.T) {
	store := NewStore([]Source{
		&fakeSource{name: "x", err: errors.New("boom")},
		&fakeSource{name: "y", err: errors.New("boom")},
	}, nil)

	result := store.Ingest(context.Background())

	assert.True(t, result.Placeholder)
	assert.Equal(t, 0, result.LoadedSources)
	// The retriever must never see an empty corpus.
	require.NotZero(t, store.Len())
	for _, doc := range store.Documents() {
		assert.Equal(t, "placeholder", doc.Metadata["type"])
		assert.Equal(t, 0.5, doc.Confidence)
	}
}

func TestIngest_PreservesSourceOrder(t *testing.T) {
	store := NewStore([]Source{
		&fakeSource{name: "first", docs: docsFor("First", "f1", "f2")},
		&fakeSource{name: "second", docs: docsFor("Second", "s1")},
	}, nil)
	store.Ingest(context.Background())

	docs := store.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "f1", docs[0].Content)
	assert.Equal(t, "f2", docs[1].Content)
	assert.Equal(t, "s1", docs[2].Content)
}

func TestIngest_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore([]Source{
		&fakeSource{name: "a", docs: docsFor("A", "doc")},
	}, nil)
	result := store.Ingest(ctx)

	require.Len(t, result.FailedSources, 1)
	assert.True(t, result.Placeholder)
}

func TestSearchKeyword(t *testing.T) {
	store := NewStore([]Source{
		&fakeSource{name: "a", docs: docsFor("A",
			"SiC wafer costs and energy use",
			"GaN device performance",
			"energy price trends and carbon intensity",
		)},
	}, nil)
	store.Ingest(context.Background())

	docs := store.SearchKeyword("energy carbon", 5)
	require.Len(t, docs, 2)
	// Two tokens match the third document, one matches the first.
	assert.Contains(t, docs[0].Content, "carbon intensity")
	assert.Contains(t, docs[1].Content, "SiC wafer")

	assert.Len(t, store.SearchKeyword("energy carbon", 1), 1)
	assert.Nil(t, store.SearchKeyword("", 5))
	assert.Nil(t, store.SearchKeyword("energy", 0))
	assert.Empty(t, store.SearchKeyword("nonexistentterm", 5))
}
