package allocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAllocate_Success(t *testing.T) {
	t.Parallel()

	reader := newMockBlockReader(t)
	reader.On("ReadBlock", 9, mock.Anything).Return(nil).Once()
	reader.On("ReadBlock", 10, mock.Anything).Return(nil).Once()

	handler := NewHandler(reader, 9, 2048)
	bm := NewBitmap(40)

	block, err := handler.Allocate(bm, 50)
	require.NoError(t, err)
	assert.Equal(t, 9, block)

	block, err = handler.Allocate(bm, 50)
	require.NoError(t, err)
	assert.Equal(t, 10, block)

	assert.Equal(t, 2, bm.Used())
}

func TestAllocate_Fail_BeyondPartition(t *testing.T) {
	t.Parallel()

	reader := newMockBlockReader(t)
	handler := NewHandler(reader, 9, 2048)

	bm := NewBitmap(40)
	for i := range 16 {
		require.NoError(t, bm.Set(i))
	}

	_, err := handler.Allocate(bm, 25)
	require.ErrorIs(t, err, ErrBeyondPartition)
	assert.Equal(t, 16, bm.Used(), "nothing must be claimed on failure")
}

func TestAllocate_Fail_ReadBack(t *testing.T) {
	t.Parallel()

	readErr := errors.New("read error")

	reader := newMockBlockReader(t)
	reader.On("ReadBlock", 9, mock.Anything).Return(readErr)

	handler := NewHandler(reader, 9, 2048)
	bm := NewBitmap(40)

	_, err := handler.Allocate(bm, 50)
	require.ErrorIs(t, err, ErrReadBack)
	require.ErrorIs(t, err, readErr)
	assert.Equal(t, 0, bm.Used())
}

func TestAllocate_Fail_Full(t *testing.T) {
	t.Parallel()

	handler := NewHandler(newMockBlockReader(t), 9, 2048)

	bm := NewBitmap(40)
	for i := range 40 {
		require.NoError(t, bm.Set(i))
	}

	_, err := handler.Allocate(bm, 100)
	require.ErrorIs(t, err, ErrNoFreeBlock)
}

func TestRelease(t *testing.T) {
	t.Parallel()

	handler := NewHandler(newMockBlockReader(t), 9, 2048)

	bm := NewBitmap(40)
	require.NoError(t, bm.Set(2))

	require.NoError(t, handler.Release(bm, 11))
	assert.False(t, bm.IsSet(2))

	require.ErrorIs(t, handler.Release(bm, 3), ErrBitOutOfRange)
	assert.Equal(t, 12, handler.Block(3))
}
