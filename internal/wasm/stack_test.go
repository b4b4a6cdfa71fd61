package wasm

import (
	"testing"

	"github.com/watconform/watconform/internal/require"
)

func TestOperandStackPushPop(t *testing.T) {
	s := NewOperandStack()
	require.True(t, s.Push(I32(1)))
	require.True(t, s.Push(I32(2)))
	require.Equal(t, 2, s.Len())

	top, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, int32(2), top.I32())
	require.Equal(t, 1, s.Len())
}

func TestOperandStackPopEmpty(t *testing.T) {
	s := NewOperandStack()
	_, ok := s.Pop()
	require.True(t, !ok, "pop on empty stack must report false, not panic")
}

func TestOperandStackOverflow(t *testing.T) {
	s := NewOperandStack()
	for i := 0; i < MaxStackSlots; i++ {
		require.True(t, s.Push(I32(int32(i))), "push %d should still fit", i)
	}
	require.True(t, !s.Push(I32(0)), "push beyond MaxStackSlots must fail")
}

func TestOperandStackUnwind(t *testing.T) {
	s := NewOperandStack()
	mark := s.Mark()
	s.Push(I32(10))
	s.Push(I32(20))
	s.Push(I32(30))
	s.Unwind(mark, 1)
	require.Equal(t, 1, s.Len())
	top, _ := s.Peek()
	require.Equal(t, int32(30), top.I32())
}
