package pricing

import "sort"

// Line is a cart entry: an item code and a positive quantity.
type Line struct {
	ItemCode string `json:"item_code"`
	Quantity int    `json:"quantity"`
}

// Cart holds quantity-by-item-code state for a single client session.
// It is not safe for concurrent use; each session owns exactly one Cart
// and threads it explicitly rather than sharing a process-wide instance.
type Cart struct {
	lines map[string]int
}

func NewCart() *Cart {
	return &Cart{lines: make(map[string]int)}
}

// UpdateLine applies a signed quantity delta to the line for itemCode.
// A missing line is created when delta > 0 and left absent otherwise.
// A line whose quantity falls to zero or below is removed entirely, so a
// quantity never persists at <= 0. The final state depends only on the sum
// of deltas per item code, not on the order they were applied in.
func (c *Cart) UpdateLine(itemCode string, delta int) {
	current, ok := c.lines[itemCode]
	if !ok {
		if delta > 0 {
			c.lines[itemCode] = delta
		}
		return
	}

	current += delta
	if current <= 0 {
		delete(c.lines, itemCode)
		return
	}
	c.lines[itemCode] = current
}

// Quantity returns the current quantity for itemCode, zero if absent.
func (c *Cart) Quantity(itemCode string) int {
	return c.lines[itemCode]
}

// Len returns the number of distinct lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns the cart contents sorted by item code. Sorting keeps the
// derived per-line output stable across calls; totals themselves are
// order-independent.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for code, qty := range c.lines {
		out = append(out, Line{ItemCode: code, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return out
}
