package pathing

import (
	"strings"
	"testing"

	"github.com/desertwitch/simfs/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		kind     layout.Kind
		clean    string
		parent   string
		leaf     string
		expected error
	}{
		{"Success_TopLevelFile", "/f", layout.KindFile, "/f", "/", "f", nil},
		{"Success_NestedFile", "/a/b/f.txt", layout.KindFile, "/a/b/f.txt", "/a/b", "f.txt", nil},
		{"Success_DirTrailingSlash", "/a/b/", layout.KindDirectory, "/a/b", "/a", "b", nil},
		{"Success_FileTrailingSlash", "/a/f/", layout.KindFile, "/a/f", "/a", "f", nil},
		{"Success_MaxDepth", "/1/2/3/4/5", layout.KindDirectory, "/1/2/3/4/5", "/1/2/3/4", "5", nil},
		{"Success_MaxName", "/" + strings.Repeat("n", 32), layout.KindFile, "/" + strings.Repeat("n", 32), "/", strings.Repeat("n", 32), nil},
		{"Fail_Empty", "", layout.KindFile, "", "", "", ErrInvalidPath},
		{"Fail_Relative", "a/b", layout.KindFile, "", "", "", ErrInvalidPath},
		{"Fail_Root", "/", layout.KindDirectory, "", "", "", ErrInvalidPath},
		{"Fail_EmptyName", "/a//", layout.KindDirectory, "", "", "", ErrInvalidPath},
		{"Fail_TooDeep", "/1/2/3/4/5/6", layout.KindDirectory, "", "", "", ErrPathTooDeep},
		{"Fail_NameTooLong", "/" + strings.Repeat("n", 33), layout.KindFile, "", "", "", ErrNameTooLong},
		{"Fail_DirPathTooLong", "/" + strings.Repeat("d", 30) + "/" + strings.Repeat("d", 30) + "/" + strings.Repeat("d", 30) + "/dddddd", layout.KindDirectory, "", "", "", ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clean, parent, leaf, err := Split(tt.path, tt.kind)
			if tt.expected != nil {
				require.ErrorIs(t, err, tt.expected)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.clean, clean)
			assert.Equal(t, tt.parent, parent)
			assert.Equal(t, tt.leaf, leaf)
		})
	}
}

func TestSplit_FileAllowsLongerPathThanDir(t *testing.T) {
	t.Parallel()

	path := "/" + strings.Repeat("a", 32) + "/" + strings.Repeat("b", 32) + "/" + strings.Repeat("c", 32) + "/f"
	require.Greater(t, len(path), layout.MaxDirPath)

	_, _, _, err := Split(path, layout.KindFile)
	require.NoError(t, err)

	_, _, _, err = Split(path, layout.KindDirectory)
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", Name("/"))
	assert.Equal(t, "f", Name("/f"))
	assert.Equal(t, "file.txt", Name("/a/b/file.txt"))
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", Clean("/"))
	assert.Equal(t, "/a", Clean("/a/"))
	assert.Equal(t, "/a/", Clean("/a//"))
}
