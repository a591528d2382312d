package orders

import "sort"

// normalize re-checks what the routing layer should already have validated,
// merges duplicate product refs by summing quantities, and sorts the result
// ascending by product id. Locks are always acquired in that order, so two
// requests naming the same products in opposite orders cannot form a
// lock-ordering cycle.
func normalize(lines []LineInput) ([]LineInput, error) {
	if len(lines) == 0 {
		return nil, &ValidationError{Reason: "no lines"}
	}
	merged := make(map[string]int, len(lines))
	for _, ln := range lines {
		if ln.ProductID == "" {
			return nil, &ValidationError{Reason: "empty product id"}
		}
		if ln.Qty <= 0 {
			return nil, &ValidationError{Reason: "quantity must be positive for product " + ln.ProductID}
		}
		merged[ln.ProductID] += ln.Qty
	}
	out := make([]LineInput, 0, len(merged))
	for id, qty := range merged {
		out = append(out, LineInput{ProductID: id, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
