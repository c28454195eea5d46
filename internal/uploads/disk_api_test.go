package uploads

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid png header, enough for content type sniffing
var pngBytes = append(
	[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	make([]byte, 64)...,
)

var gifBytes = append([]byte("GIF89a"), make([]byte, 64)...)

func TestDiskApi_SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	diskApi, err := NewDiskApi(t.TempDir())
	require.NoError(t, err)

	name, err := diskApi.Save(ctx, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), name)

	gifName, err := diskApi.Save(ctx, bytes.NewReader(gifBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gifName, ".gif"), gifName)
	assert.NotEqual(t, name, gifName)

	file, err := diskApi.Open(ctx, name)
	require.NoError(t, err)
	defer file.Close()

	stat, err := file.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(len(pngBytes)), stat.Size())
}

func TestDiskApi_Save_UnsupportedType(t *testing.T) {
	diskApi, err := NewDiskApi(t.TempDir())
	require.NoError(t, err)

	_, err = diskApi.Save(context.Background(), strings.NewReader("just some text, no image"))
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
}

func TestDiskApi_Open_NotFound(t *testing.T) {
	ctx := context.Background()
	diskApi, err := NewDiskApi(t.TempDir())
	require.NoError(t, err)

	_, err = diskApi.Open(ctx, "no-such-image.png")
	assert.ErrorIs(t, err, ErrImageNotFound)

	// no escaping the root dir
	_, err = diskApi.Open(ctx, "../secrets.txt")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestDiskApi_Delete(t *testing.T) {
	ctx := context.Background()
	diskApi, err := NewDiskApi(t.TempDir())
	require.NoError(t, err)

	name, err := diskApi.Save(ctx, bytes.NewReader(pngBytes))
	require.NoError(t, err)

	require.NoError(t, diskApi.Delete(ctx, name))
	_, err = diskApi.Open(ctx, name)
	assert.ErrorIs(t, err, ErrImageNotFound)

	assert.ErrorIs(t, diskApi.Delete(ctx, name), ErrImageNotFound)
}
