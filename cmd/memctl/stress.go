package main

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/bytedance/gopkg/lang/fastrand"
	"github.com/cloudwego/gopkg/concurrency/gopool"
	"github.com/spf13/cobra"

	"github.com/memkit/memkit/heap"
)

var (
	stressWorkers  int
	stressOps      int
	stressMaxSize  int
	stressStrategy string
	stressScribble bool
	stressDump     bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressWorkers, "workers", 8, "Concurrent workers")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Operations per worker")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 4096, "Maximum allocation size in bytes")
	cmd.Flags().
		StringVar(&stressStrategy, "strategy", "first_fit", "Fit strategy: first_fit, best_fit, worst_fit")
	cmd.Flags().BoolVar(&stressScribble, "scribble", false, "Poison-fill new allocations with 0xAA")
	cmd.Flags().BoolVar(&stressDump, "dump", false, "Dump the heap layout before final release")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocate/release workload",
		Long: `The stress command hammers one allocator with interleaved allocate and
release calls from concurrent workers, then releases everything, verifies
the heap invariants, and prints the allocator statistics.

Example:
  memctl stress --workers 16 --ops 50000 --strategy best_fit
  memctl stress --scribble --dump`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

func runStress() error {
	strategy, err := heap.ParseStrategy(stressStrategy)
	if err != nil {
		return err
	}

	h := heap.New(heap.WithStrategy(strategy), heap.WithScribble(stressScribble))
	printInfo("stressing %s: %d workers x %d ops, sizes <%d\n",
		strategy, stressWorkers, stressOps, stressMaxSize)

	leftovers := make([][]unsafe.Pointer, stressWorkers)
	var wg sync.WaitGroup
	for w := 0; w < stressWorkers; w++ {
		w := w
		wg.Add(1)
		gopool.Go(func() {
			defer wg.Done()

			var mine []unsafe.Pointer
			for i := 0; i < stressOps; i++ {
				if len(mine) > 0 && fastrand.Intn(100) < 40 {
					i := fastrand.Intn(len(mine))
					h.Free(mine[i])
					mine[i] = mine[len(mine)-1]
					mine = mine[:len(mine)-1]
					continue
				}
				p, allocErr := h.Alloc(fastrand.Intn(stressMaxSize))
				if allocErr != nil {
					continue
				}
				mine = append(mine, p)
			}
			leftovers[w] = mine
		})
	}
	wg.Wait()

	if err := h.Check(); err != nil {
		return fmt.Errorf("heap invariants violated after workload: %w", err)
	}
	printVerbose("workload done: %s\n", h.Stats())

	if stressDump {
		if err := h.Dump(os.Stdout); err != nil {
			return err
		}
	}

	outstanding := 0
	for _, mine := range leftovers {
		outstanding += len(mine)
		for _, p := range mine {
			h.Free(p)
		}
	}
	if err := h.Check(); err != nil {
		return fmt.Errorf("heap invariants violated after final release: %w", err)
	}

	st := h.Stats()
	printInfo("released %d outstanding allocations\n", outstanding)
	printInfo("%s\n", st)
	if regions, bytes := st.Live(); regions != 0 || bytes != 0 {
		return fmt.Errorf("leak: %d regions (%d bytes) still mapped", regions, bytes)
	}
	printInfo("all regions reclaimed\n")
	return nil
}
