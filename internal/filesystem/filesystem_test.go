package filesystem

import (
	"bytes"
	"errors"
	"testing"

	"github.com/desertwitch/simfs/internal/blockstore"
	"github.com/desertwitch/simfs/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDeviceSize = 102400

var errTestDevice = errors.New("device failure")

func newMountedHandler(t *testing.T) (*Handler, *blockstore.MemoryDevice) {
	t.Helper()

	device := blockstore.NewMemoryDevice(testDeviceSize / layout.BlockSize)
	h := NewHandler(device)

	require.NoError(t, h.Mkfs(testDeviceSize))
	require.NoError(t, h.Mount())

	return h, device
}

func readBlock(t *testing.T, device *blockstore.MemoryDevice, index int) []byte {
	t.Helper()

	buf := make([]byte, layout.BlockSize)
	require.NoError(t, device.ReadBlock(index, buf))

	return buf
}

func TestMkfs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int64
		wantErr error
	}{
		{"Success_Default", testDeviceSize, nil},
		{"Success_Minimum", 51200, nil},
		{"Success_Maximum", 9998336, nil},
		{"Fail_TooSmall", 49152, ErrInvalidSize},
		{"Fail_TooLarge", 10002432, ErrInvalidSize},
		{"Fail_Unaligned", testDeviceSize + 1, ErrInvalidSize},
		{"Fail_Negative", -2048, ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(blockstore.NewMemoryDevice(1))
			err := h.Mkfs(tt.size)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, h.Stat().Formatted)

				return
			}

			require.NoError(t, err)

			stats := h.Stat()
			assert.True(t, stats.Formatted)
			assert.False(t, stats.Mounted)
			assert.Equal(t, 1, stats.Items)
			assert.Equal(t, int(tt.size/layout.BlockSize), stats.PartitionBlocks)
			assert.Zero(t, stats.UsedDataBlocks)
		})
	}
}

func TestMkfs_DoesNotTouchDevice(t *testing.T) {
	t.Parallel()

	device := newMockBlockDevice(t)
	h := NewHandler(device)

	require.NoError(t, h.Mkfs(testDeviceSize))
	device.AssertNotCalled(t, "WriteBlock", mock.Anything, mock.Anything)
}

func TestMount_Success(t *testing.T) {
	t.Parallel()

	h, device := newMountedHandler(t)
	assert.True(t, h.IsMounted())

	var block [layout.BlockSize]byte
	copy(block[:], readBlock(t, device, layout.SuperblockIndex))

	sb, err := layout.DecodeSuperblock(&block)
	require.NoError(t, err)

	assert.True(t, sb.Mounted)
	assert.Equal(t, 1, sb.NumItems)
	assert.Equal(t, testDeviceSize/layout.BlockSize, sb.PartitionBlocks)
	assert.Equal(t, h.Stat().VolumeID, sb.VolumeID)
}

func TestMount_Fail_NotFormatted(t *testing.T) {
	t.Parallel()

	h := NewHandler(blockstore.NewMemoryDevice(50))

	err := h.Mount()
	require.ErrorIs(t, err, ErrNotFormatted)
	assert.Equal(t, CodeError, ReturnCode(err))
}

func TestMount_Fail_AlreadyMounted(t *testing.T) {
	t.Parallel()

	h, _ := newMountedHandler(t)

	err := h.Mount()
	require.ErrorIs(t, err, ErrAlreadyMounted)
	assert.Equal(t, CodeFailure, ReturnCode(err))
	assert.True(t, h.IsMounted())
}

func TestMount_Fail_DeviceIO(t *testing.T) {
	t.Parallel()

	device := newMockBlockDevice(t)
	device.On("WriteBlock", layout.FirstInodeBlock, mock.Anything).Return(errTestDevice).Once()

	h := NewHandler(device)
	require.NoError(t, h.Mkfs(testDeviceSize))

	err := h.Mount()
	require.ErrorIs(t, err, ErrDeviceIO)
	require.ErrorIs(t, err, errTestDevice)
	assert.False(t, h.IsMounted())
}

func TestUnmount_Success(t *testing.T) {
	t.Parallel()

	h, device := newMountedHandler(t)

	require.NoError(t, h.Unmount())
	assert.False(t, h.IsMounted())
	assert.Equal(t, make([]byte, layout.BlockSize), readBlock(t, device, layout.SuperblockIndex))

	require.ErrorIs(t, h.CreateFile("/a"), ErrNotMounted)
	require.ErrorIs(t, h.MkDir("/a"), ErrNotMounted)
	require.ErrorIs(t, h.RemoveFile("/a"), ErrNotMounted)
	require.ErrorIs(t, h.RmDir("/a"), ErrNotMounted)

	_, err := h.LsDir("/")
	require.ErrorIs(t, err, ErrNotMounted)

	_, err = h.OpenFile("/a")
	require.ErrorIs(t, err, ErrNotMounted)
}

func TestUnmount_Fail_NotMounted(t *testing.T) {
	t.Parallel()

	h := NewHandler(blockstore.NewMemoryDevice(50))
	require.ErrorIs(t, h.Unmount(), ErrNotMounted)

	require.NoError(t, h.Mkfs(testDeviceSize))
	require.ErrorIs(t, h.Unmount(), ErrNotMounted)
}

func TestUnmount_Fail_DeviceIO(t *testing.T) {
	t.Parallel()

	device := newMockBlockDevice(t)
	device.On("WriteBlock", mock.Anything, mock.Anything).Return(nil).Times(layout.MetadataBlocks + 1)
	device.On("WriteBlock", layout.SuperblockIndex, mock.Anything).Return(errTestDevice).Once()

	h := NewHandler(device)
	require.NoError(t, h.Mkfs(testDeviceSize))
	require.NoError(t, h.Mount())

	err := h.Unmount()
	require.ErrorIs(t, err, ErrDeviceIO)
	assert.True(t, h.IsMounted())
}

func TestRemount_KeepsState(t *testing.T) {
	t.Parallel()

	h, device := newMountedHandler(t)

	require.NoError(t, h.MkDir("/docs"))
	require.NoError(t, h.CreateFile("/docs/a.txt"))

	fd, err := h.OpenFile("/docs/a.txt")
	require.NoError(t, err)

	n, err := h.WriteFile(fd, []byte("persisted"), 9)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.NoError(t, h.CloseFile(fd))

	require.NoError(t, h.Unmount())
	require.NoError(t, h.Mount())

	entries, err := h.LsDir("/docs")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)

	fd, err = h.OpenFile("/docs/a.txt")
	require.NoError(t, err)

	buf := make([]byte, 9)
	n, err = h.ReadFile(fd, buf, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "persisted", string(buf))

	attached, err := Attach(device)
	require.NoError(t, err)
	assert.Equal(t, h.Stat(), attached.Stat())
}

func TestStat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Stats{}, NewHandler(blockstore.NewMemoryDevice(1)).Stat())

	h, _ := newMountedHandler(t)
	require.NoError(t, h.MkDir("/a"))
	require.NoError(t, h.CreateFile("/a/b"))
	require.NoError(t, h.CreateFile("/c"))

	stats := h.Stat()
	assert.True(t, stats.Formatted)
	assert.True(t, stats.Mounted)
	assert.Equal(t, 4, stats.Items)
	assert.Equal(t, layout.MaxInodes-4, stats.FreeInodes)
	assert.Equal(t, 50, stats.PartitionBlocks)
	assert.Equal(t, layout.MaxInodes, stats.DataBlocks)
	assert.Equal(t, 2, stats.UsedDataBlocks)
}

func TestFlush_ChecksumMatchesRegion(t *testing.T) {
	t.Parallel()

	h, device := newMountedHandler(t)
	require.NoError(t, h.MkDir("/a"))

	region := make([]byte, 0, layout.MetadataBlocks*layout.BlockSize)
	for i := range layout.MetadataBlocks {
		region = append(region, readBlock(t, device, layout.FirstInodeBlock+i)...)
	}
	assert.True(t, bytes.Equal(h.table.Encode(), region))

	var block [layout.BlockSize]byte
	copy(block[:], readBlock(t, device, layout.SuperblockIndex))

	sb, err := layout.DecodeSuperblock(&block)
	require.NoError(t, err)
	assert.Equal(t, layout.Checksum(region), sb.Checksum)
	assert.Equal(t, 2, sb.NumItems)
}

func TestReturnCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Success_Nil", nil, CodeSuccess},
		{"Failure_AlreadyExists", ErrAlreadyExists, CodeFailure},
		{"Failure_NotFoundWrapped", errors.Join(errTestDevice, ErrNotFound), CodeFailure},
		{"Failure_AlreadyMounted", ErrAlreadyMounted, CodeFailure},
		{"Error_NotMounted", ErrNotMounted, CodeError},
		{"Error_NameTooLong", ErrNameTooLong, CodeError},
		{"Error_Other", errTestDevice, CodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ReturnCode(tt.err))
		})
	}
}
