package cart

import "sync"

// Registry hands out one cart per table session. Carts live for the process
// lifetime only; a submitted order is unaffected by later cart mutations.
type Registry struct {
	mu    sync.Mutex
	carts map[int]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[int]*Cart)}
}

// ForTable returns the table's cart, creating it on first use.
func (r *Registry) ForTable(tableNumber int) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[tableNumber]
	if !ok {
		c = New()
		r.carts[tableNumber] = c
	}
	return c
}
