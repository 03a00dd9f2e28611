package pricing

// ModifierType represents how a pricing rule changes a price
type ModifierType string

const (
	ModifierTypeMultiplier ModifierType = "multiplier"
	ModifierTypeFixed      ModifierType = "fixed"
)

// RuleContext carries the request attributes rule conditions evaluate against
type RuleContext struct {
	Sqft  float64 `json:"sqft,omitempty"`
	Rooms int     `json:"rooms,omitempty"`
}

// Condition is a closed set of rule predicates. Implementations live in this
// package only; arbitrary condition payloads are not supported.
type Condition interface {
	Matches(rctx RuleContext) bool
}

// SqftRange matches when the request square footage falls within [Min, Max].
// A zero sqft in the context never matches.
type SqftRange struct {
	Min float64
	Max float64
}

func (c SqftRange) Matches(rctx RuleContext) bool {
	if rctx.Sqft <= 0 {
		return false
	}
	return rctx.Sqft >= c.Min && rctx.Sqft <= c.Max
}

// RoomCountMin matches when the request room count meets the minimum
type RoomCountMin struct {
	Min int
}

func (c RoomCountMin) Matches(rctx RuleContext) bool {
	if rctx.Rooms <= 0 {
		return false
	}
	return rctx.Rooms >= c.Min
}

// Rule is a pricing adjustment attached to a service. Rules are evaluated in
// descending priority order; every matching rule applies.
type Rule struct {
	Name         string
	Condition    Condition
	Modifier     float64
	ModifierType ModifierType
	Priority     int
	IsActive     bool
}
