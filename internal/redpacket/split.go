package redpacket

// Split computes the share of the next claimant.
//
// The last claimant takes the whole remainder. Anyone else draws from
// [1, max(1, 2*remaining/count)] and is clamped so that each of the other
// count-1 claimants can still receive one unit. The expected share is about
// remaining/count.
//
// Callers must guarantee remaining >= count >= 1.
func Split(remaining, count int64, seed uint64) int64 {
	if count == 1 {
		return remaining
	}

	upper := doubleAverage(remaining, count)
	if upper < 1 {
		upper = 1
	}

	amount := 1 + int64(seed%uint64(upper))

	limit := remaining - (count - 1)
	if amount > limit {
		amount = limit
	}

	return amount
}

// doubleAverage returns floor(2*remaining/count) without overflowing for
// remaining close to MaxInt64.
func doubleAverage(remaining, count int64) int64 {
	q, r := remaining/count, remaining%count
	return 2*q + (2*r)/count
}
