package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/nursery/internal/domain"
)

// PriceBucket is a half-open price range [Min, Max). A zero Max means unbounded.
type PriceBucket struct {
	Label string
	Min   decimal.Decimal
	Max   decimal.Decimal
	Count int
}

// PriceStats summarizes the prices of a catalog. Prices are converted to
// decimals so averages and bucket edges are exact to the cent.
type PriceStats struct {
	Count   int
	Zero    int
	Min     decimal.Decimal
	Max     decimal.Decimal
	Average decimal.Decimal
	Buckets []PriceBucket
}

func newBuckets() []PriceBucket {
	edge := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	return []PriceBucket{
		{Label: "Under $10", Min: edge(0), Max: edge(10)},
		{Label: "$10-$25", Min: edge(10), Max: edge(25)},
		{Label: "$25-$50", Min: edge(25), Max: edge(50)},
		{Label: "$50-$100", Min: edge(50), Max: edge(100)},
		{Label: "$100-$200", Min: edge(100), Max: edge(200)},
		{Label: "Over $200", Min: edge(200)},
	}
}

// Prices computes price statistics. Products priced at zero are counted
// in Zero and excluded from the min, max, average and buckets.
func Prices(products []domain.ProductRecord) PriceStats {
	s := PriceStats{Buckets: newBuckets()}
	sum := decimal.Zero

	for _, p := range products {
		price := decimal.NewFromFloat(p.Price).Round(2)
		if price.IsZero() {
			s.Zero++
			continue
		}
		if s.Count == 0 || price.LessThan(s.Min) {
			s.Min = price
		}
		if s.Count == 0 || price.GreaterThan(s.Max) {
			s.Max = price
		}
		s.Count++
		sum = sum.Add(price)

		for i := range s.Buckets {
			b := &s.Buckets[i]
			if price.GreaterThanOrEqual(b.Min) && (b.Max.IsZero() || price.LessThan(b.Max)) {
				b.Count++
				break
			}
		}
	}

	if s.Count > 0 {
		s.Average = sum.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s
}
