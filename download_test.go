package pdfpng

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirDownloader(t *testing.T) {
	refs := NewMemRefs()
	dir := filepath.Join(t.TempDir(), "out")

	var saved []string
	d := &DirDownloader{Dir: dir, Refs: refs, Saved: func(p string) { saved = append(saved, p) }}

	ref, err := refs.Mint("doc_page_01.png", []byte("png"))
	require.NoError(t, err)

	require.NoError(t, d.Download(context.Background(), ref, "../escape/doc_page_01.png"))

	want := filepath.Join(dir, "doc_page_01.png")
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, []string{want}, saved)
	assert.Equal(t, 1, refs.Live(), "downloading must not release the reference")
}

func TestDirDownloader_ReleasedRef(t *testing.T) {
	refs := NewMemRefs()
	d := &DirDownloader{Dir: t.TempDir(), Refs: refs}

	ref, err := refs.Mint("a.png", []byte("a"))
	require.NoError(t, err)
	require.NoError(t, refs.Release(ref))

	assert.ErrorIs(t, d.Download(context.Background(), ref, "a.png"), ErrRefReleased)
}

func TestDirDownloader_Canceled(t *testing.T) {
	refs := NewMemRefs()
	d := &DirDownloader{Dir: t.TempDir(), Refs: refs}
	ref, err := refs.Mint("a.png", []byte("a"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Download(ctx, ref, "a.png"), context.Canceled)
}
