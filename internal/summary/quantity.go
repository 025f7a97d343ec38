package summary

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-sorter/internal/catalog"
)

var (
	two = decimal.NewFromInt(2)
	one = decimal.NewFromInt(1)
)

// Containers converts a piece count to containers, rounded up to the next
// half container.
func Containers(count, unitsPerContainer int) decimal.Decimal {
	if unitsPerContainer <= 0 || count <= 0 {
		return decimal.Zero
	}
	halves := decimal.NewFromInt(int64(count)).Mul(two).
		Div(decimal.NewFromInt(int64(unitsPerContainer))).
		Ceil()
	return halves.Div(two)
}

// Quantity renders a count for display: containers for items that have a
// container size, raw pieces otherwise.
func Quantity(count int, item catalog.Item, cat *catalog.Catalog) string {
	container, pieces := catalog.Unit{Singular: "screen", Plural: "screens"}, catalog.Unit{Singular: "pc", Plural: "pcs"}
	if cat != nil {
		container, pieces = cat.ContainerUnit, cat.CountUnit
	}
	if item.UnitsPerContainer > 0 {
		c := Containers(count, item.UnitsPerContainer)
		return c.String() + " " + container.Label(c.Equal(one))
	}
	return strconv.Itoa(count) + " " + pieces.Label(count == 1)
}
