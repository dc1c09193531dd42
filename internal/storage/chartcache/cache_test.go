package chartcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetFlush(t *testing.T) {
	c := New(time.Minute, time.Minute)
	k := Key{Kind: "bars", Format: "png", Width: 800, Height: 400}

	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Set(k, Entry{ContentType: "image/png", Body: []byte{1, 2}})
	e, ok := c.Get(k)
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2}, e.Body)
	assert.Equal(t, 1, c.Len())

	c.Flush()
	_, ok = c.Get(k)
	assert.False(t, ok)
}

func TestCache_PointerIsPartOfKey(t *testing.T) {
	c := New(time.Minute, time.Minute)
	base := Key{Kind: "bars", Format: "png", Width: 800, Height: 400}
	withPointer := base
	withPointer.Pointer = true
	withPointer.PointerX = 100
	withPointer.PointerY = 200

	c.Set(base, Entry{Body: []byte("idle")})
	_, ok := c.Get(withPointer)
	assert.False(t, ok)
	assert.NotEqual(t, base.String(), withPointer.String())
}

func TestCache_Expiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Hour)
	k := Key{Kind: "scatter"}
	c.Set(k, Entry{Body: []byte("x")})
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(k)
	assert.False(t, ok)
}
