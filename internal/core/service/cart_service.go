package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/metrics"
	"github.com/tiendademo/storefront/pkg/observable"
)

var hundred = decimal.NewFromInt(100)

// CartService implements ports.CartService. The cart lives in memory only.
// Every mutation publishes a fresh copy of the item list to subscribers.
// Subscribers may call back into the cart; their changes are delivered after
// the notification in progress.
type CartService struct {
	mu       sync.RWMutex
	items    []domain.CartItem
	discount decimal.Decimal

	subject *observable.Subject[[]domain.CartItem]
}

func NewCartService() *CartService {
	return &CartService{
		discount: decimal.Zero,
		subject:  observable.NewSubject([]domain.CartItem{}),
	}
}

// AddItem adds item, or increases the quantity of the line with the same ID
// by item.Quantity. A new line with a quantity below one is stored with one;
// a non-positive quantity for an existing line changes nothing.
func (s *CartService) AddItem(item domain.CartItem) {
	s.mutate("add", func() bool {
		if i := s.indexOf(item.ID); i >= 0 {
			if item.Quantity < 1 {
				return false
			}
			s.items[i].Quantity += item.Quantity
			return true
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		s.items = append(s.items, item)
		return true
	})
}

func (s *CartService) IncrementQuantity(id string) {
	s.mutate("increment", func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.items[i].Quantity++
		return true
	})
}

// DecrementQuantity lowers the quantity of id, but never below one.
func (s *CartService) DecrementQuantity(id string) {
	s.mutate("decrement", func() bool {
		i := s.indexOf(id)
		if i < 0 || s.items[i].Quantity <= 1 {
			return false
		}
		s.items[i].Quantity--
		return true
	})
}

func (s *CartService) RemoveItem(id string) {
	s.mutate("remove", func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return true
	})
}

// Clear empties the cart and resets the discount.
func (s *CartService) Clear() {
	s.mutate("clear", func() bool {
		s.items = nil
		s.discount = decimal.Zero
		return true
	})
}

// ApplyDiscount sets the percentage taken off the item total. The value is
// not range-checked; callers pass 0 to 100.
func (s *CartService) ApplyDiscount(percent decimal.Decimal) {
	s.mu.Lock()
	s.discount = percent
	s.mu.Unlock()
	metrics.CartMutationsTotal.WithLabelValues("discount").Inc()
}

// Items returns a copy of the current lines in insertion order.
func (s *CartService) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

// Subtotal is the item total minus the discount.
func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotal()
}

// ShippingCost is free from domain.FreeShippingThreshold upwards.
func (s *CartService) ShippingCost() decimal.Decimal {
	return shippingFor(s.Subtotal())
}

// GrandTotal reads the cart once, so it never mixes two cart states.
func (s *CartService) GrandTotal() decimal.Decimal {
	s.mu.RLock()
	sub := s.subtotal()
	s.mu.RUnlock()
	return sub.Add(shippingFor(sub))
}

// Subscribe delivers the current item list immediately and after every change.
func (s *CartService) Subscribe(fn func([]domain.CartItem)) func() {
	return s.subject.Subscribe(func(items []domain.CartItem) {
		out := make([]domain.CartItem, len(items))
		copy(out, items)
		fn(out)
	})
}

// mutate applies fn under the write lock and, if it changed anything,
// queues the new list while still holding the lock so notifications follow
// mutation order. Delivery happens after the lock is released.
func (s *CartService) mutate(op string, fn func() bool) {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.subject.Enqueue(s.copyItems())
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	s.subject.Flush()
}

// subtotal expects s.mu to be held.
func (s *CartService) subtotal() decimal.Decimal {
	base := decimal.Zero
	for _, it := range s.items {
		base = base.Add(it.LineTotal())
	}
	return base.Sub(base.Mul(s.discount).Div(hundred))
}

func shippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(domain.FreeShippingThreshold) {
		return decimal.Zero
	}
	return domain.FlatShippingFee
}

func (s *CartService) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *CartService) copyItems() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
