package orderview

import (
	"slices"
	"strconv"
	"strings"

	"iget-admin/internal/common/igetprotocol"
	"iget-admin/internal/igetadmin/data"
)

type Filter struct {
	Status     data.Status     `json:"status,omitempty"`
	BundleType data.BundleType `json:"bundleType,omitempty"`
	StartDate  string          `json:"startDate,omitempty"`
	EndDate    string          `json:"endDate,omitempty"`
}

func (f Filter) IsEmpty() bool {
	return f.Status == data.NullStatus && f.BundleType == "" && f.StartDate == "" && f.EndDate == ""
}

type NetworkCapacity struct {
	Network  string  `json:"network"`
	Capacity float64 `json:"capacity"`
}

// String is the wire form the backend expects: "network:capacity".
func (nc NetworkCapacity) String() string {
	return nc.Network + ":" + formatCapacity(nc.Capacity)
}

func ParseNetworkCapacity(s string) (NetworkCapacity, bool) {
	network, capacity, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || network == "" {
		return NetworkCapacity{}, false
	}
	value, err := strconv.ParseFloat(capacity, 64)
	if err != nil {
		return NetworkCapacity{}, false
	}
	return NetworkCapacity{Network: network, Capacity: value}, true
}

// Exclusions hides capacities, networks or network-capacity pairs. Every
// toggle is its own inverse.
type Exclusions struct {
	Capacities        []float64         `json:"capacities,omitempty"`
	Networks          []string          `json:"networks,omitempty"`
	NetworkCapacities []NetworkCapacity `json:"networkCapacities,omitempty"`
}

func (e Exclusions) ToggleCapacity(capacity float64) Exclusions {
	e.Capacities = toggle(e.Capacities, capacity)
	return e
}

func (e Exclusions) ToggleNetwork(network string) Exclusions {
	e.Networks = toggle(e.Networks, network)
	return e
}

func (e Exclusions) ToggleNetworkCapacity(nc NetworkCapacity) Exclusions {
	e.NetworkCapacities = toggle(e.NetworkCapacities, nc)
	return e
}

func (e Exclusions) IsEmpty() bool {
	return len(e.Capacities) == 0 && len(e.Networks) == 0 && len(e.NetworkCapacities) == 0
}

func toggle[T comparable](items []T, item T) []T {
	if i := slices.Index(items, item); i >= 0 {
		res := make([]T, 0, len(items)-1)
		res = append(res, items[:i]...)
		return append(res, items[i+1:]...)
	}
	res := make([]T, 0, len(items)+1)
	res = append(res, items...)
	return append(res, item)
}

type Criteria struct {
	Filter       Filter     `json:"filter"`
	Exclusions   Exclusions `json:"exclusions"`
	Search       string     `json:"search,omitempty"`
	ServerSearch bool       `json:"serverSearch"`
}

// Query renders the criteria for the orders endpoint. The free-text term is
// only sent when server-side search is on.
func (c Criteria) Query(page, limit int) igetprotocol.OrdersQuery {
	q := igetprotocol.OrdersQuery{
		Page:       page,
		Limit:      limit,
		Status:     string(c.Filter.Status),
		BundleType: string(c.Filter.BundleType),
		StartDate:  c.Filter.StartDate,
		EndDate:    c.Filter.EndDate,
	}
	if c.ServerSearch {
		q.Search = strings.TrimSpace(c.Search)
	}
	for _, capacity := range c.Exclusions.Capacities {
		q.ExcludedCapacities = append(q.ExcludedCapacities, formatCapacity(capacity))
	}
	q.ExcludedNetworks = append(q.ExcludedNetworks, c.Exclusions.Networks...)
	for _, nc := range c.Exclusions.NetworkCapacities {
		q.ExcludedNetworkCapacities = append(q.ExcludedNetworkCapacities, nc.String())
	}
	return q
}

// MatchesSearch is the client-side refinement: a case-insensitive substring
// match against any of the searchable fields.
func MatchesSearch(order data.Order, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range searchableFields(order) {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func searchableFields(order data.Order) []string {
	fields := []string{
		order.RecipientNumber,
		order.PhoneNumber,
		order.OrderReference,
		order.FullName(),
		order.ID,
		string(order.BundleType),
		string(order.Status),
		formatCapacity(order.Capacity),
		order.Price.String(),
	}
	if order.User != nil {
		fields = append(fields, order.User.Username, order.User.Email)
	}
	return fields
}

func formatCapacity(capacity float64) string {
	return strconv.FormatFloat(capacity, 'f', -1, 64)
}
