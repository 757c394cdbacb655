package entities

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Bounds returns the half-open range [start, end) that the page covers in a
// collection of total items. ok is false when the page is out of range or
// malformed; callers return an empty result in that case.
func (p Page) Bounds(total int) (start int, end int, ok bool) {
	if p.Number < 1 || p.Size < 1 || total <= 0 {
		return 0, 0, false
	}
	if p.Number-1 > (total-1)/p.Size {
		return 0, 0, false
	}
	start = (p.Number - 1) * p.Size
	end = total
	if p.Size < total-start {
		end = start + p.Size
	}
	return start, end, true
}

// Clamp caps the page size at max when max is positive.
func (p Page) Clamp(max int) Page {
	if max > 0 && p.Size > max {
		p.Size = max
	}
	return p
}
