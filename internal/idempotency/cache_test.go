package idempotency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetReplaysByteIdentical(t *testing.T) {
	c := NewCache(time.Minute)

	body := []byte(`{"message":"boom"}`)
	c.Set("key-1", 500, body, 0)

	entry, ok := c.Get("key-1")
	assert.True(t, ok, "error responses are cached just like successes")
	assert.Equal(t, 500, entry.StatusCode)
	assert.Equal(t, body, entry.Body)
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Millisecond)

	c.Set("key-1", 201, []byte(`{}`), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("key-1")
	assert.False(t, ok)
}
