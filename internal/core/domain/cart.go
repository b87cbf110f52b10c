package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// A CartLine is a snapshot of a product taken when it was first added.
// Later catalog edits never reach it.
type CartLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Qty       int
}

func (l CartLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// A Cart is the ephemeral selection of one billing session.
//
// Every line present has Qty >= 1. Cart is not safe for concurrent use.
type Cart struct {
	policy CartPolicy
	lines  []CartLine
}

func NewCart(policy CartPolicy) *Cart {
	return &Cart{policy: policy}
}

// AddLine adds qty units of p. It fails with ErrOutOfStock when p has no
// stock, or when the policy caps the cart at p.Stock and the add exceeds it.
func (c *Cart) AddLine(p Product, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: qty must be positive", ErrValidation)
	}
	if p.Stock <= 0 {
		return fmt.Errorf("%w: %q", ErrOutOfStock, p.Name)
	}

	i := c.indexOf(p.ID)
	inCart := 0
	if i >= 0 {
		inCart = c.lines[i].Qty
	}
	if c.policy.EnforceStockCap && inCart+qty > p.Stock {
		return fmt.Errorf(
			"%w: %q has %d left, %d already in cart",
			ErrOutOfStock, p.Name, p.Stock, inCart,
		)
	}

	if i >= 0 {
		c.lines[i].Qty += qty
		return nil
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Qty:       qty,
	})
	return nil
}

// DecreaseLine takes one unit off the line of productID and drops the
// line when it reaches zero. Reports false if there is no such line.
func (c *Cart) DecreaseLine(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.lines[i].Qty--
	if c.lines[i].Qty == 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return true
}

// RemoveLine drops the line of productID whatever its qty.
func (c *Cart) RemoveLine(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Amount())
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []CartLine {
	ls := make([]CartLine, len(c.lines))
	copy(ls, c.lines)
	return ls
}

// Snapshot copies the lines into order items.
func (c *Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, len(c.lines))
	for i, l := range c.lines {
		items[i] = OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			Price:     l.Price,
		}
	}
	return items
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
