package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageCache_GetSet(t *testing.T) {
	c := New(20 * time.Second)

	_, ok := c.Get("index:page=")
	assert.False(t, ok)

	c.Set("index:page=", []byte("rendered page"))
	body, ok := c.Get("index:page=")
	assert.True(t, ok)
	assert.Equal(t, []byte("rendered page"), body)
}

func TestPageCache_KeysAreIndependent(t *testing.T) {
	c := New(20 * time.Second)

	c.Set("index:page=", []byte("page one"))
	c.Set("index:page=2", []byte("page two"))

	body, ok := c.Get("index:page=2")
	assert.True(t, ok)
	assert.Equal(t, []byte("page two"), body)
}

func TestPageCache_ExpiresByTimeOnly(t *testing.T) {
	now := time.Now()
	c := New(20 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("index:page=", []byte("stale soon"))

	// Inside the TTL the same bytes come back, regardless of what happened
	// to the underlying data in the meantime.
	now = now.Add(19 * time.Second)
	body, ok := c.Get("index:page=")
	assert.True(t, ok)
	assert.Equal(t, []byte("stale soon"), body)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("index:page=")
	assert.False(t, ok)
}

func TestPageCache_SetDropsExpiredEntries(t *testing.T) {
	now := time.Now()
	c := New(20 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("index:page=", []byte("old"))
	now = now.Add(time.Minute)
	c.Set("index:page=2", []byte("new"))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.entries, 1)
}
