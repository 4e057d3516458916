package xdmfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func intMember(v int64) sequence.Sequence {
	return sequence.OneAtomic(atomic.IntegerFromInt64(v))
}

func TestArrayJoinConcatenatesInOrder(t *testing.T) {
	a := NewArray([]sequence.Sequence{intMember(1), intMember(2)})
	b := NewArray([]sequence.Sequence{intMember(3)})

	joined := Join([]Array{a, b})

	require.Equal(t, 3, joined.Size())
	v, err := joined.Get(3)
	require.Nil(t, err)
	assert.Equal(t, int64(3), v.At(0).Atomic().IntegerValue().Int64())
}

func TestArrayInsertBeforeShiftsMembers(t *testing.T) {
	a := NewArray([]sequence.Sequence{intMember(1), intMember(3)})

	inserted, err := a.InsertBefore(2, intMember(2))
	require.Nil(t, err)
	require.Equal(t, 3, inserted.Size())

	for i, want := range []int64{1, 2, 3} {
		v, err := inserted.Get(i + 1)
		require.Nil(t, err)
		assert.Equal(t, want, v.At(0).Atomic().IntegerValue().Int64())
	}

	// The original array is untouched.
	assert.Equal(t, 2, a.Size())
}

func TestArrayInsertBeforeRejectsOutOfRangeIndex(t *testing.T) {
	a := NewArray([]sequence.Sequence{intMember(1)})
	_, err := a.InsertBefore(0, intMember(9))
	assert.NotNil(t, err)
	_, err = a.InsertBefore(3, intMember(9))
	assert.NotNil(t, err)
}

func TestArrayRemoveDropsTheMemberAndClosesTheGap(t *testing.T) {
	a := NewArray([]sequence.Sequence{intMember(1), intMember(2), intMember(3)})
	removed, err := a.Remove(2)
	require.Nil(t, err)
	require.Equal(t, 2, removed.Size())

	first, _ := removed.Get(1)
	second, _ := removed.Get(2)
	assert.Equal(t, int64(1), first.At(0).Atomic().IntegerValue().Int64())
	assert.Equal(t, int64(3), second.At(0).Atomic().IntegerValue().Int64())
}

func TestArrayAppendAddsASingleTrailingMember(t *testing.T) {
	a := NewArray([]sequence.Sequence{intMember(1)})
	appended := a.Append(intMember(2))

	require.Equal(t, 2, appended.Size())
	require.Equal(t, 1, a.Size(), "Append must not mutate the receiver")

	v, err := appended.Get(2)
	require.Nil(t, err)
	assert.Equal(t, int64(2), v.At(0).Atomic().IntegerValue().Int64())
}

func TestArrayFlattenConcatenatesMemberSequences(t *testing.T) {
	a := NewArray([]sequence.Sequence{
		sequence.Many([]sequence.Item{sequence.AtomicItem(atomic.IntegerFromInt64(1)), sequence.AtomicItem(atomic.IntegerFromInt64(2))}),
		intMember(3),
	})

	flat, err := a.Flatten()
	require.Nil(t, err)

	items, err := flat.Items()
	require.Nil(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(1), items[0].Atomic().IntegerValue().Int64())
	assert.Equal(t, int64(3), items[2].Atomic().IntegerValue().Int64())
}
