package search

import (
	"fmt"
	"net/url"
	"strconv"
)

// ActivityQuery is the validated filter set for one activities search.
// Built once per tool invocation and discarded after use.
type ActivityQuery struct {
	Search         string
	DestinationIDs []int
	CategoryIDs    []int
	MinPrice       *float64
	MaxPrice       *float64
	SortBy         string
}

// Validate rejects negative prices and unknown sort keys. A min price
// above the max price is not an error: the bounds are swapped, since
// the model occasionally hands them over reversed.
func (q *ActivityQuery) Validate() error {
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return fmt.Errorf("min price must be non-negative")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return fmt.Errorf("max price must be non-negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		q.MinPrice, q.MaxPrice = q.MaxPrice, q.MinPrice
	}
	if q.SortBy != "" {
		switch q.SortBy {
		case SortPriceLowToHigh, SortPriceHighToLow, SortBestSelling, SortTopReviewed:
		default:
			return fmt.Errorf("unknown sort key %q", q.SortBy)
		}
	}

	return nil
}

// Values encodes the query the way the activities endpoint expects it.
// Array filters use the bracketed convention (destinations[]=1), ids
// keep their input order, and absent optional filters emit no key at
// all. Pure transformation, no I/O.
func (q *ActivityQuery) Values() url.Values {
	values := url.Values{}

	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for _, id := range q.DestinationIDs {
		values.Add("destinations[]", strconv.Itoa(id))
	}
	for _, id := range q.CategoryIDs {
		values.Add("categories[]", strconv.Itoa(id))
	}
	if q.MinPrice != nil {
		values.Set("min_price", formatPrice(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		values.Set("max_price", formatPrice(*q.MaxPrice))
	}
	if q.SortBy != "" {
		values.Set("sort_by", q.SortBy)
	}

	return values
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
