package history

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-arb-resampler/internal/errs"
)

func TestNew_RejectsZeroCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		h, err := New[int](capacity)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
		assert.Nil(t, h)
	}
}

// TestPush_Capacity5 walks the push sequence 1..7 into a capacity-5 buffer and
// checks the two views after every push.
func TestPush_Capacity5(t *testing.T) {
	h, err := New[int](5)
	require.NoError(t, err)

	older, newer := h.Views()
	assert.Equal(t, []int{0, 0, 0, 0, 0}, older)
	assert.Empty(t, newer)

	steps := []struct {
		push    int
		evicted int
		older   []int
		newer   []int
	}{
		{1, 0, []int{0, 0, 0, 0}, []int{1}},
		{2, 0, []int{0, 0, 0}, []int{1, 2}},
		{3, 0, []int{0, 0}, []int{1, 2, 3}},
		{4, 0, []int{0}, []int{1, 2, 3, 4}},
		{5, 0, []int{1, 2, 3, 4, 5}, []int{}},
		{6, 1, []int{2, 3, 4, 5}, []int{6}},
		{7, 2, []int{3, 4, 5}, []int{6, 7}},
	}

	for _, s := range steps {
		assert.Equal(t, s.evicted, h.Push(s.push), "push %d", s.push)
		older, newer := h.Views()
		assert.Equal(t, s.older, older, "older after push %d", s.push)
		assert.Equal(t, s.newer, newer, "newer after push %d", s.push)
	}

	assert.Equal(t, []int{3, 4, 5, 6, 7}, h.Snapshot())
}

func TestPush_Capacity3(t *testing.T) {
	h, err := New[int](3)
	require.NoError(t, err)

	var evicted []int
	for v := 1; v <= 5; v++ {
		evicted = append(evicted, h.Push(v))
	}

	assert.Equal(t, []int{0, 0, 0, 1, 2}, evicted)
	assert.Equal(t, []int{3, 4, 5}, slices.Collect(h.All()))
}

func TestPush_FIFOEviction(t *testing.T) {
	const capacity = 8
	h, err := New[float64](capacity)
	require.NoError(t, err)

	for i := range capacity {
		h.Push(float64(i + 100))
	}
	for i := range capacity {
		assert.Equal(t, float64(i+100), h.Push(float64(i)), "eviction %d", i)
	}
}

func TestAll_RestartableAndNonMutating(t *testing.T) {
	h, err := New[int](3)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, slices.Collect(h.All()))
	h.Push(1)
	assert.Equal(t, []int{0, 0, 1}, slices.Collect(h.All()))
	h.Push(2)
	assert.Equal(t, []int{0, 1, 2}, slices.Collect(h.All()))
	h.Push(3)
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(h.All()))
	h.Push(4)

	seq := h.All()
	assert.Equal(t, []int{2, 3, 4}, slices.Collect(seq))
	assert.Equal(t, []int{2, 3, 4}, slices.Collect(seq), "second pass must start fresh")
	assert.Equal(t, 1, h.Cursor())

	// Early termination stops cleanly.
	var first []int
	for v := range seq {
		first = append(first, v)
		break
	}
	assert.Equal(t, []int{2}, first)
}

func TestRestore(t *testing.T) {
	h, err := New[int](4)
	require.NoError(t, err)
	for v := 1; v <= 6; v++ {
		h.Push(v)
	}
	snap := h.Snapshot()

	other, err := New[int](4)
	require.NoError(t, err)
	require.NoError(t, other.Restore(snap))
	assert.Equal(t, snap, other.Snapshot())

	// Both evolve identically afterwards.
	assert.Equal(t, h.Push(7), other.Push(7))
	assert.Equal(t, h.Snapshot(), other.Snapshot())

	err = other.Restore([]int{1, 2})
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
}

func TestRestoreSlots_KeepsSplit(t *testing.T) {
	h, err := New[int](5)
	require.NoError(t, err)
	for v := 1; v <= 7; v++ {
		h.Push(v)
	}
	require.Equal(t, 2, h.Cursor())

	other, err := New[int](5)
	require.NoError(t, err)
	require.NoError(t, other.RestoreSlots(h.Slots(), h.Cursor()))
	assert.Equal(t, h.Cursor(), other.Cursor())

	wantOlder, wantNewer := h.Views()
	older, newer := other.Views()
	assert.Equal(t, wantOlder, older)
	assert.Equal(t, wantNewer, newer)
	assert.Equal(t, []int{3, 4, 5}, older)
	assert.Equal(t, []int{6, 7}, newer)

	// Slots is a copy.
	slots := h.Slots()
	slots[0] = 100
	assert.Equal(t, []int{6, 7, 3, 4, 5}, h.Slots())

	tests := []struct {
		name   string
		slots  []int
		cursor int
	}{
		{"short", []int{1, 2}, 0},
		{"negative_cursor", make([]int, 5), -1},
		{"cursor_at_len", make([]int, 5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := other.RestoreSlots(tt.slots, tt.cursor)
			assert.True(t, errors.Is(err, errs.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestCloneAndReset(t *testing.T) {
	h, err := New[int](3)
	require.NoError(t, err)
	h.Push(1)
	h.Push(2)

	c := h.Clone()
	c.Push(9)
	assert.Equal(t, []int{0, 1, 2}, h.Snapshot())
	assert.Equal(t, []int{1, 2, 9}, c.Snapshot())

	h.Reset()
	assert.Equal(t, []int{0, 0, 0}, h.Snapshot())
	assert.Equal(t, 0, h.Cursor())
	assert.Equal(t, 3, h.Len())
}

func BenchmarkPush(b *testing.B) {
	h, err := New[float64](64)
	require.NoError(b, err)
	b.ReportAllocs()
	for b.Loop() {
		h.Push(1.0)
	}
}
