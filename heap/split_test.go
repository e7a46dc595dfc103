package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Split
// ============================================================================

// TestSplitFloorRefusal pins the 100-byte floor: a free block of total
// size 100 can never be split, because the remainder is below the floor
// for every target size.
func TestSplitFloorRefusal(t *testing.T) {
	for _, target := range []uintptr{8, 48, 96} {
		h, bufs := newListHeap(t, []blockSpec{{size: 100, free: true, region: 0}})
		defer func() { _ = bufs }()

		b := h.head
		assert.Nil(t, h.split(b, target), "split at %d should be refused", target)
		assert.Equal(t, uintptr(100), b.size, "refused split must not mutate the block")
		assert.True(t, b.free)
		assert.Zero(t, h.Stats().Splits)
	}
}

func TestSplitRefusesUsedBlock(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{304}, []bool{false})
	defer func() { _ = buf }()

	assert.Nil(t, h.split(h.head, 104))
	assert.Equal(t, uintptr(304), h.head.size)
}

func TestSplitRefusesOversizedTarget(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{208}, []bool{true})
	defer func() { _ = buf }()

	assert.Nil(t, h.split(h.head, 4000), "target beyond the block must be refused")
	assert.Equal(t, uintptr(208), h.head.size)
}

// TestSplitSuccess208 pins the contract example: a 208-byte free block
// split at 104 produces two 104-byte blocks, prefix in use, remainder
// free and linked immediately after.
func TestSplitSuccess208(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{208}, []bool{true})
	defer func() { _ = buf }()

	b := h.head
	rem := h.split(b, 104)
	require.NotNil(t, rem)

	assert.Equal(t, uintptr(104), b.size)
	assert.False(t, b.free, "prefix is handed out in use")
	assert.Equal(t, uintptr(104), rem.size)
	assert.True(t, rem.free)
	assert.Equal(t, b.regionID, rem.regionID)
	assert.Equal(t, b.end(), rem.start(), "remainder begins exactly where the prefix ends")

	assert.Same(t, rem, b.next)
	assert.Same(t, b, rem.prev)
	assert.Same(t, rem, h.tail, "remainder of the old tail becomes the new tail")
	assert.Nil(t, rem.next)

	assert.Equal(t, "Allocation 0", rem.label(), "remainder gets a fresh default label")
	assert.Equal(t, uint64(1), h.Stats().Splits)
}

// TestSplitRemainderFloor verifies the other half of the floor: a split
// whose remainder would land below 100 bytes is refused even though the
// block itself is large enough.
func TestSplitRemainderFloor(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{208}, []bool{true})
	defer func() { _ = buf }()

	assert.Nil(t, h.split(h.head, 120), "remainder of 88 is below the floor")
	assert.Equal(t, uintptr(208), h.head.size)
	assert.True(t, h.head.free)
}

// TestSplitMidListLinkage splits a block that is not the tail and checks
// the remainder is stitched between the halves.
func TestSplitMidListLinkage(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{304, 144}, []bool{true, false})
	defer func() { _ = buf }()

	first, last := h.head, h.tail
	rem := h.split(first, 112)
	require.NotNil(t, rem)

	assert.Equal(t, []uintptr{112, 192, 144}, listSizes(h))
	assert.Same(t, rem, first.next)
	assert.Same(t, first, rem.prev)
	assert.Same(t, last, rem.next)
	assert.Same(t, rem, last.prev)
	assert.Same(t, last, h.tail, "tail is unchanged for a mid-list split")
}

// ============================================================================
// Coalesce
// ============================================================================

func TestCoalesceBackward(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{136, 136, 144}, []bool{true, false, false})
	defer func() { _ = buf }()

	blocks := listBlocks(h)
	blocks[1].free = true // just freed

	survivor := h.coalesce(blocks[1])
	assert.Same(t, blocks[0], survivor, "previous free neighbor absorbs the block")
	assert.Equal(t, []uintptr{272, 144}, listSizes(h))
	assert.True(t, survivor.free)
	assert.Same(t, blocks[2], survivor.next)
	assert.Same(t, survivor, blocks[2].prev)
	assert.Equal(t, uint64(1), h.Stats().MergesBackward)
}

func TestCoalesceForward(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{136, 136, 136, 144}, []bool{false, false, true, false})
	defer func() { _ = buf }()

	blocks := listBlocks(h)
	blocks[1].free = true // just freed, free block follows

	survivor := h.coalesce(blocks[1])
	assert.Same(t, blocks[1], survivor)
	assert.Equal(t, []uintptr{136, 272, 144}, listSizes(h))
	assert.Same(t, blocks[3], survivor.next)
	assert.Same(t, survivor, blocks[3].prev)
	assert.Equal(t, uint64(1), h.Stats().MergesForward)
}

func TestCoalesceBothSides(t *testing.T) {
	h, buf := newArenaHeap(t, []uintptr{136, 136, 136}, []bool{true, false, true})
	defer func() { _ = buf }()

	blocks := listBlocks(h)
	blocks[1].free = true

	survivor := h.coalesce(blocks[1])
	assert.Same(t, blocks[0], survivor)
	assert.Equal(t, uintptr(408), survivor.size)
	assert.Nil(t, survivor.next, "survivor spans the whole arena")

	st := h.Stats()
	assert.Equal(t, uint64(1), st.MergesBackward)
	assert.Equal(t, uint64(1), st.MergesForward)
}

// TestCoalesceNeverCrossesRegion: free blocks that are list neighbors but
// belong to different mappings must stay distinct.
func TestCoalesceNeverCrossesRegion(t *testing.T) {
	h, bufs := newListHeap(t, []blockSpec{
		{size: 136, free: true, region: 0},
		{size: 136, free: true, region: 1},
	})
	defer func() { _ = bufs }()

	blocks := listBlocks(h)
	survivor := h.coalesce(blocks[1])

	assert.Same(t, blocks[1], survivor, "no merge across a region boundary")
	assert.Equal(t, []uintptr{136, 136}, listSizes(h))

	st := h.Stats()
	assert.Zero(t, st.MergesForward)
	assert.Zero(t, st.MergesBackward)
}
