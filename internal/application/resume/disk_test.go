package resume

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirepath/internal/application/models"
)

func pdfAttachment() models.Attachment {
	return models.Attachment{Filename: "../../etc/passwd.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7 body")}
}

func TestDiskStoreSaveWritesUnderDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	st, err := NewDiskStore(dir)
	require.NoError(t, err)

	ref, err := st.Save(context.Background(), pdfAttachment())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(ref), "client filename must not influence the path")
	assert.True(t, strings.HasSuffix(ref, ".pdf"))
	data, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))
}

func TestDiskStoreSaveNamesAreUnique(t *testing.T) {
	st, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	a, err := st.Save(context.Background(), pdfAttachment())
	require.NoError(t, err)
	b, err := st.Save(context.Background(), pdfAttachment())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDiskStoreSaveHonoursCancelledContext(t *testing.T) {
	st, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = st.Save(ctx, pdfAttachment())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiskStoreDelete(t *testing.T) {
	dir := t.TempDir()
	st, err := NewDiskStore(dir)
	require.NoError(t, err)

	ref, err := st.Save(context.Background(), pdfAttachment())
	require.NoError(t, err)

	require.NoError(t, st.Delete(context.Background(), ref))
	_, err = os.Stat(ref)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, st.Delete(context.Background(), ref), "deleting twice is harmless")
	assert.Error(t, st.Delete(context.Background(), filepath.Join(dir, "..", "other.pdf")))
	assert.Error(t, st.Delete(context.Background(), dir))
}
