package policy

import "sync/atomic"

// Budget caps external decision calls for one incoming request. A nil
// Budget never runs out.
type Budget struct {
	max  int64
	used atomic.Int64
}

func NewBudget(max int) *Budget {
	if max < 0 {
		max = 0
	}
	return &Budget{max: int64(max)}
}

func (b *Budget) TryAcquire() bool {
	if b == nil {
		return true
	}
	for {
		used := b.used.Load()
		if used >= b.max {
			return false
		}
		if b.used.CompareAndSwap(used, used+1) {
			return true
		}
	}
}

func (b *Budget) Used() int {
	if b == nil {
		return 0
	}
	return int(b.used.Load())
}
