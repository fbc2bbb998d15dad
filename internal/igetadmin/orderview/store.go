package orderview

import "iget-admin/internal/igetadmin/data"

// Store is the single normalized copy of the loaded orders, keyed by id and
// remembering load order. Filtered and paginated collections are derived from it.
// It is not safe for concurrent use; View guards it.
type Store struct {
	byID map[string]*data.Order
	ids  []string
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]*data.Order),
	}
}

func (s *Store) Replace(orders []data.Order) {
	s.Clear()
	s.Append(orders)
}

// Append adds orders in arrival order. An id that is already loaded is
// refreshed in place instead of being duplicated.
func (s *Store) Append(orders []data.Order) (added int) {
	for i := range orders {
		order := orders[i]
		if existing, ok := s.byID[order.ID]; ok {
			*existing = order
			continue
		}
		s.byID[order.ID] = &order
		s.ids = append(s.ids, order.ID)
		added++
	}
	return added
}

func (s *Store) Clear() {
	s.byID = make(map[string]*data.Order)
	s.ids = nil
}

func (s *Store) Get(id string) (data.Order, bool) {
	order, ok := s.byID[id]
	if !ok {
		return data.Order{}, false
	}
	return *order, true
}

func (s *Store) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *Store) Len() int {
	return len(s.ids)
}

func (s *Store) All() []data.Order {
	res := make([]data.Order, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, *s.byID[id])
	}
	return res
}

// Patch applies fn to every loaded order among ids and returns how many were touched.
func (s *Store) Patch(ids []string, fn func(order *data.Order)) int {
	patched := 0
	for _, id := range ids {
		order, ok := s.byID[id]
		if !ok {
			continue
		}
		fn(order)
		patched++
	}
	return patched
}
