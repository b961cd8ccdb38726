package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceCachesPerCredential(t *testing.T) {
	pool := NewClientPool(NewTokenPool([]string{"a", "b"}))

	first := pool.Instance("a")
	second := pool.Instance("a")
	other := pool.Instance("b")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestBestInstanceComposesTokenSelection(t *testing.T) {
	tokens := NewTokenPool([]string{"only"})
	pool := NewClientPool(tokens)

	client, cred, err := pool.BestInstance()
	require.NoError(t, err)
	assert.Equal(t, "only", cred)
	assert.NotNil(t, client)
	assert.Same(t, client, pool.Instance("only"))
}

func TestBestInstanceSurfacesExhaustion(t *testing.T) {
	pool := NewClientPool(NewTokenPool(nil))

	_, _, err := pool.BestInstance()
	require.Error(t, err)
	assert.True(t, IsRateLimitExhausted(err))
}
