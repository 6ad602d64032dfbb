package state

// cursor is a selection index over a list of n entries; -1 means none.
type cursor struct {
	index int
}

func (c *cursor) clamp(n int) {
	switch {
	case n == 0:
		c.index = -1
	case c.index < 0:
		c.index = 0
	case c.index >= n:
		c.index = n - 1
	}
}

func (c *cursor) set(i, n int) bool {
	old := c.index
	c.index = i
	c.clamp(n)
	return c.index != old
}

func (c *cursor) move(delta, n int) bool {
	if n == 0 {
		c.index = -1
		return false
	}
	start := c.index
	if start < 0 {
		start = 0
	}
	return c.set(start+delta, n)
}

func pageSize(page, n int) int {
	if page <= 0 || page > n {
		page = n
	}
	if page < 1 {
		page = 1
	}
	return page
}
