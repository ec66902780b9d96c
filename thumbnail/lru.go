package thumbnail

import (
	"container/list"
	"image"
)

// lruCache is a strict least-recently-used index over decoded bitmaps.
// It is not safe for concurrent use; the Loader's mutex guards it.
type lruCache struct {
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

type lruEntry struct {
	key   string
	image image.Image
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

// get returns the cached image and marks the key as most recently used.
func (c *lruCache) get(key string) (image.Image, bool) {
	element, ok := c.index[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*lruEntry).image, true
}

// put inserts or refreshes key, evicting the least-recently-touched entry
// once the item cap is exceeded.
func (c *lruCache) put(key string, img image.Image) {
	if element, ok := c.index[key]; ok {
		element.Value.(*lruEntry).image = img
		c.order.MoveToFront(element)
		return
	}

	c.index[key] = c.order.PushFront(&lruEntry{key: key, image: img})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*lruEntry).key)
	}
}

func (c *lruCache) len() int {
	return c.order.Len()
}

func (c *lruCache) reset() {
	c.order.Init()
	c.index = make(map[string]*list.Element, c.capacity)
}
