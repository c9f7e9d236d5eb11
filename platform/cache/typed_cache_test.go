package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	values map[string]interface{}
	setErr error
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]interface{})}
}

func (c *stubCache) GetCache(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *stubCache) SetCache(key string, value interface{}, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value
	return nil
}

func (c *stubCache) DelCache(key string) error {
	delete(c.values, key)
	return nil
}

func (c *stubCache) GetOrLoad(key string, expiration time.Duration, loader func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v, err := loader()
	if err != nil {
		return nil, err
	}
	c.values[key] = v
	return v, nil
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestTypedCacheRoundTrip(t *testing.T) {
	tc := NewTypedCache[*payload](newStubCache())

	_, ok, err := tc.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tc.Set("k", &payload{Name: "a", Count: 2}, time.Minute))
	got, ok, err := tc.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)

	require.NoError(t, tc.Delete("k"))
	_, ok, err = tc.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

// values fetched from the redis layer come back as JSON strings, not as the
// stored type
func TestTypedCacheDecodesRedisString(t *testing.T) {
	stub := newStubCache()
	raw, err := json.Marshal(&payload{Name: "from-redis", Count: 7})
	require.NoError(t, err)
	stub.values["k"] = string(raw)

	tc := NewTypedCache[*payload](stub)
	got, ok, err := tc.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from-redis", got.Name)
	assert.Equal(t, 7, got.Count)
}

func TestTypedCacheDecodesBytes(t *testing.T) {
	stub := newStubCache()
	stub.values["k"] = []byte(`{"name":"bytes","count":1}`)

	tc := NewTypedCache[*payload](stub)
	got, ok, err := tc.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bytes", got.Name)
}

func TestTypedCacheSurfacesCorruptValue(t *testing.T) {
	stub := newStubCache()
	stub.values["k"] = "not json"

	tc := NewTypedCache[*payload](stub)
	_, ok, err := tc.Get("k")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestTypedCachePropagatesSetError(t *testing.T) {
	stub := newStubCache()
	stub.setErr = errors.New("redis down")

	tc := NewTypedCache[*payload](stub)
	assert.Error(t, tc.Set("k", &payload{}, time.Minute))
}
