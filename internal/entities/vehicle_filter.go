package entities

import "github.com/shopspring/decimal"

// VehicleFilter narrows catalog listings. Nil price bounds mean unbounded;
// both bounds are inclusive.
type VehicleFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
