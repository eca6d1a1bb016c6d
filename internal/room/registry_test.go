package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_AddRemove(t *testing.T) {
	r := NewRegistry()

	r.Add("c1", "r1")
	r.Add("c1", "r2")
	r.Add("c1", "r1")

	primary, ok := r.Primary("c1")
	assert.True(t, ok)
	assert.Equal(t, "r1", primary)

	r.Remove("c1", "r1")
	primary, ok = r.Primary("c1")
	assert.True(t, ok)
	assert.Equal(t, "r2", primary)

	r.Remove("c1", "r2")
	_, ok = r.Primary("c1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Take(t *testing.T) {
	r := NewRegistry()
	r.Add("c1", "r1")
	r.Add("c1", "r2")
	r.Add("c2", "r1")

	assert.Equal(t, []string{"r1", "r2"}, r.Take("c1"))
	_, ok := r.Primary("c1")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
	assert.Nil(t, r.Take("unknown"))
}

func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Add("c1", "r1")
	r.Add("c1", "r1")

	assert.Equal(t, []string{"r1"}, r.Take("c1"))
}
