package upload_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/upload"
)

func newTestStore(t *testing.T, maxSize int64) *upload.Store {
	t.Helper()
	store, err := upload.NewStore(t.TempDir(), maxSize, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestSave_WritesFileAndReturnsReference(t *testing.T) {
	store := newTestStore(t, 1024)

	ref, err := store.Save(strings.NewReader("fake image bytes"), "pothole.jpg")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	data, err := os.ReadFile(filepath.FromSlash(ref))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestSave_SameOriginalNameNeverCollides(t *testing.T) {
	store := newTestStore(t, 1024)

	refA, err := store.Save(strings.NewReader("first"), "report.pdf")
	require.NoError(t, err)
	refB, err := store.Save(strings.NewReader("second"), "report.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, refA, refB)

	dataA, err := os.ReadFile(filepath.FromSlash(refA))
	require.NoError(t, err)
	assert.Equal(t, "first", string(dataA))
}

func TestSave_RejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t, 1024)

	for _, name := range []string{"malware.exe", "script.sh", "noextension"} {
		_, err := store.Save(strings.NewReader("x"), name)
		assert.ErrorIs(t, err, apperr.ErrValidation, name)
	}
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	store := newTestStore(t, 8)

	_, err := store.Save(strings.NewReader("way more than eight bytes"), "big.png")

	assert.ErrorIs(t, err, apperr.ErrValidation)

	// The partial file must not be left behind.
	entries, readErr := os.ReadDir(store.Dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSave_ExtensionCheckIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Save(strings.NewReader("x"), "PHOTO.JPG")

	assert.NoError(t, err)
}
