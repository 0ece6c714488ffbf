package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyParamOrderIndependent(t *testing.T) {
	id := DatasetID("ds-1")

	a := NewCacheKey(id, "chart", map[string]string{"kind": "bar", "x": "region", "y": "revenue"})
	b := NewCacheKey(id, "chart", map[string]string{"y": "revenue", "x": "region", "kind": "bar"})
	assert.Equal(t, a, b)
}

func TestCacheKeyDistinguishesRequests(t *testing.T) {
	id := DatasetID("ds-1")

	base := NewCacheKey(id, "chart", map[string]string{"kind": "bar"})
	otherParams := NewCacheKey(id, "chart", map[string]string{"kind": "line"})
	otherOp := NewCacheKey(id, "summary", map[string]string{"kind": "bar"})
	otherDataset := NewCacheKey(DatasetID("ds-2"), "chart", map[string]string{"kind": "bar"})

	assert.NotEqual(t, base, otherParams)
	assert.NotEqual(t, base, otherOp)
	assert.NotEqual(t, base, otherDataset)
}

func TestCacheKeyDatasetPrefix(t *testing.T) {
	id := DatasetID("ds-1")
	key := NewCacheKey(id, "summary", nil)

	assert.True(t, key.HasPrefix(DatasetPrefix(id)))
	assert.False(t, key.HasPrefix(DatasetPrefix(DatasetID("ds-2"))))
}

func TestNewHashDeterministic(t *testing.T) {
	assert.Equal(t, NewHash([]byte("payload")), NewHash([]byte("payload")))
	assert.NotEqual(t, NewHash([]byte("payload")), NewHash([]byte("other")))
	assert.Len(t, NewHash([]byte("payload")).String(), 64)
}

func TestNewIDIsUnique(t *testing.T) {
	a := NewDatasetID()
	b := NewDatasetID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsEmpty())
}

func TestParseDatasetID(t *testing.T) {
	id, err := ParseDatasetID("abc-123")
	assert.NoError(t, err)
	assert.Equal(t, DatasetID("abc-123"), id)

	_, err = ParseDatasetID("   ")
	assert.Error(t, err)
}
