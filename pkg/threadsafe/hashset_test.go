package threadsafe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSet(t *testing.T) {
	set := NewHashSet[string]()

	assert.True(t, set.Add("b"))
	assert.True(t, set.Add("a"))
	assert.False(t, set.Add("a"))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"a", "b"}, set.Items())

	assert.True(t, set.Remove("a"))
	assert.False(t, set.Remove("a"))
	assert.False(t, set.Contains("a"))
	assert.True(t, set.Contains("b"))

	set.Clear()
	assert.Equal(t, 0, set.Len())
}

func TestHashSetRetain(t *testing.T) {
	set := NewHashSet[string]()
	for _, id := range []string{"o1", "o2", "o3"} {
		set.Add(id)
	}

	dropped := set.Retain(func(item string) bool { return item != "o2" })

	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"o1", "o3"}, set.Items())
}

func TestHashSetConcurrentAdd(t *testing.T) {
	set := NewHashSet[int]()
	wg := &sync.WaitGroup{}
	for i := range 50 {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			set.Add(v % 10)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, set.Len())
}
