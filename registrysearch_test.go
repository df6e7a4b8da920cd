package registrysearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{1, 0, 0}
	}
	return vectors, nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(
		WithDatabaseURL("sqlite:///:memory:"),
		WithEmbedder(stubEmbedder{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNew_RequiresEmbedder(t *testing.T) {
	_, err := New(WithDatabaseURL("sqlite:///:memory:"))
	assert.ErrorIs(t, err, ErrNoEmbedder)
}

func TestNew_WiresServices(t *testing.T) {
	client := newTestClient(t)

	assert.NotNil(t, client.Search)
	assert.NotNil(t, client.Servers)
	assert.NotNil(t, client.Sync)
	assert.NotNil(t, client.Logger())
	assert.NotNil(t, client.Embedder())
}

func TestClient_ListEmptyCatalog(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	servers, err := client.Servers.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, servers)

	count, err := client.Servers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClient_SearchEmptyCatalog(t *testing.T) {
	client := newTestClient(t)

	results, err := client.Search.Search(context.Background(), "filesystem")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_CloseTwice(t *testing.T) {
	client, err := New(
		WithDatabaseURL("sqlite:///:memory:"),
		WithEmbedder(stubEmbedder{}),
	)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), ErrClientClosed)
}
