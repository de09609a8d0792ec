package utils

import (
	"math"
	"regexp"
	"strconv"
)

var digitRun = regexp.MustCompile(`\d+`)

// PricedQuantity is the part of a material line that earnings depend on.
type PricedQuantity struct {
	Price    string
	Quantity float64
}

// AveragePrice returns the mean of every number in a price label such as
// "৳৮-১২" or "৳50+". ok is false when the label holds no number.
func AveragePrice(price string) (avg float64, ok bool) {
	matches := digitRun.FindAllString(ToASCIIDigits(price), -1)
	if len(matches) == 0 {
		return 0, false
	}

	sum := 0.0
	for _, m := range matches {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		sum += n
	}
	return sum / float64(len(matches)), true
}

// CalculateEarnings sums average price times quantity over all lines and
// rounds half up. A zero quantity counts as one unit.
func CalculateEarnings(items []PricedQuantity) int {
	total := 0.0
	for _, item := range items {
		avg, ok := AveragePrice(item.Price)
		if !ok {
			continue
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		total += avg * qty
	}
	return int(math.Floor(total + 0.5))
}
