package heap

import "fmt"

// Strategy selects the free-space search policy used when reusing blocks.
type Strategy uint8

const (
	// FirstFit returns the first free block large enough, scanning the
	// list head to tail. The default.
	FirstFit Strategy = iota

	// BestFit scans the entire list and returns the smallest free block
	// that still satisfies the request. Ties keep the first candidate
	// encountered.
	BestFit

	// WorstFit scans the entire list and returns the largest satisfying
	// free block. Ties keep the first candidate encountered.
	WorstFit
)

// Strategy values as they appear in external configuration.
const (
	strategyFirstFit = "first_fit"
	strategyBestFit  = "best_fit"
	strategyWorstFit = "worst_fit"
)

func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return strategyFirstFit
	case BestFit:
		return strategyBestFit
	case WorstFit:
		return strategyWorstFit
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy maps an external configuration value to a Strategy. The
// empty string selects FirstFit.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case strategyFirstFit, "":
		return FirstFit, nil
	case strategyBestFit:
		return BestFit, nil
	case strategyWorstFit:
		return WorstFit, nil
	default:
		return FirstFit, fmt.Errorf("heap: unknown strategy %q", s)
	}
}

// findFit locates a free block of at least need total bytes using the
// configured strategy, or nil when none qualifies. Pure read-only scan;
// the caller holds the lock.
func (h *Heap) findFit(need uintptr) *block {
	switch h.strategy {
	case BestFit:
		return bestFit(h.head, need)
	case WorstFit:
		return worstFit(h.head, need)
	default:
		return firstFit(h.head, need)
	}
}

func firstFit(head *block, need uintptr) *block {
	for b := head; b != nil; b = b.next {
		if b.free && b.size >= need {
			return b
		}
	}
	return nil
}

func bestFit(head *block, need uintptr) *block {
	var best *block
	for b := head; b != nil; b = b.next {
		if !b.free || b.size < need {
			continue
		}
		// Strict comparison: an equal-size candidate never replaces the
		// incumbent, so ties resolve to the first block encountered.
		if best == nil || b.size < best.size {
			best = b
		}
	}
	return best
}

func worstFit(head *block, need uintptr) *block {
	var worst *block
	for b := head; b != nil; b = b.next {
		if !b.free || b.size < need {
			continue
		}
		if worst == nil || b.size > worst.size {
			worst = b
		}
	}
	return worst
}
