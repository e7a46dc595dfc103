package heap

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/bytedance/gopkg/lang/fastrand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentStress hammers one Heap from several goroutines with
// interleaved allocate/release calls. The single mutex must serialize all
// list mutation, so after every pointer has been released the heap ends
// in the same state a serial replay would produce: completely empty.
func TestConcurrentStress(t *testing.T) {
	const (
		workers = 8
		ops     = 400
	)

	for _, strategy := range []Strategy{FirstFit, BestFit, WorstFit} {
		t.Run(strategy.String(), func(t *testing.T) {
			h := New(WithStrategy(strategy))

			leftovers := make([][]unsafe.Pointer, workers)
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				w := w
				wg.Add(1)
				go func() {
					defer wg.Done()

					var mine []unsafe.Pointer
					for i := 0; i < ops; i++ {
						if len(mine) > 0 && fastrand.Intn(100) < 40 {
							i := fastrand.Intn(len(mine))
							h.Free(mine[i])
							mine[i] = mine[len(mine)-1]
							mine = mine[:len(mine)-1]
							continue
						}

						p, err := h.Alloc(fastrand.Intn(512))
						if err != nil {
							continue
						}
						// Touch the payload so overlapping handouts
						// would corrupt each other visibly.
						b := blockOf(p)
						pb := b.payloadBytes()
						if len(pb) > 0 {
							pb[0] = byte(w)
							pb[len(pb)-1] = byte(w)
						}
						mine = append(mine, p)
					}
					leftovers[w] = mine
				}()
			}
			wg.Wait()

			require.NoError(t, h.Check(), "invariants must hold after the storm")

			for _, mine := range leftovers {
				for _, p := range mine {
					h.Free(p)
				}
			}
			requireEmpty(t, h)

			st := h.Stats()
			assert.Equal(t, st.AllocCalls, st.FreeCalls,
				"every successful allocation should have been freed exactly once")
		})
	}
}

// TestConcurrentZeroAlloc checks that AllocZero's allocate-then-zero
// sequence holds the guard for both steps: concurrent callers must never
// observe or poison each other's freshly zeroed payloads.
func TestConcurrentZeroAlloc(t *testing.T) {
	h := New(WithScribble(true))

	const workers = 4
	var wg sync.WaitGroup
	ptrs := make(chan unsafe.Pointer, workers*50)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p, err := h.AllocZero(8, 16)
				if err != nil {
					continue
				}
				for _, c := range blockOf(p).payloadBytes() {
					if c != 0 {
						t.Error("zero-allocated payload contains nonzero byte")
						break
					}
				}
				ptrs <- p
			}
		}()
	}
	wg.Wait()
	close(ptrs)

	for p := range ptrs {
		h.Free(p)
	}
	requireEmpty(t, h)
}
