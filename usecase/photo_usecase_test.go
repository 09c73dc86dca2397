package usecase

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaar-backend/pkg/apperr"
)

const fakeStoreBase = "http://localhost:8080/photos/"

type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	puts       int
	failPut    bool
	failDelete bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Put(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failPut {
		return errors.New("disk full")
	}
	s.objects[path] = append([]byte(nil), data...)
	return nil
}

func (s *fakeObjectStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errors.New("disk gone")
	}
	delete(s.objects, path)
	return nil
}

func (s *fakeObjectStore) URL(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	return fakeStoreBase + path, nil
}

func (s *fakeObjectStore) PathFromURL(url string) string {
	if !strings.HasPrefix(url, fakeStoreBase) {
		return ""
	}
	return strings.TrimPrefix(url, fakeStoreBase)
}

// testJPEG encodes a small solid image; dimensions vary the byte size so
// individual uploads stay distinguishable.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestUploadOneRejectsBeforeStorage(t *testing.T) {
	store := newFakeObjectStore()
	u := NewPhotoUsecase(store)

	_, err := u.UploadOne(PhotoUpload{Data: testJPEG(t, 8, 8), ContentType: "application/pdf"}, "u1")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = u.UploadOne(PhotoUpload{Data: testJPEG(t, 8, 8), ContentType: "image/jpeg"}, "  ")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = u.UploadOne(PhotoUpload{Data: []byte("not an image"), ContentType: "image/jpeg"}, "u1")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	assert.Equal(t, 0, store.puts)
}

func TestUploadOneStoresUnderOwner(t *testing.T) {
	store := newFakeObjectStore()
	u := NewPhotoUsecase(store)

	url, err := u.UploadOne(PhotoUpload{Data: testJPEG(t, 8, 8), ContentType: "image/jpeg"}, "u1")
	require.NoError(t, err)

	path := store.PathFromURL(url)
	assert.True(t, strings.HasPrefix(path, "listings/u1/"), "path %q", path)
	assert.Contains(t, store.objects, path)
}

func TestUploadManyBounds(t *testing.T) {
	store := newFakeObjectStore()
	u := NewPhotoUsecase(store)

	_, err := u.UploadMany(nil, "u1")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Equal(t, "Please upload 1-5 photos.", apperr.MessageOf(err))

	six := make([]PhotoUpload, 6)
	for i := range six {
		six[i] = PhotoUpload{Data: testJPEG(t, 8, 8), ContentType: "image/jpeg"}
	}
	_, err = u.UploadMany(six, "u1")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	assert.Equal(t, 0, store.puts)
}

func TestUploadManyKeepsInputOrder(t *testing.T) {
	store := newFakeObjectStore()
	u := NewPhotoUsecase(store)

	// Small images pass through compression untouched, so stored bytes
	// identify which input landed behind which URL.
	files := []PhotoUpload{
		{Data: testJPEG(t, 16, 16), ContentType: "image/jpeg"},
		{Data: testJPEG(t, 64, 64), ContentType: "image/jpeg"},
		{Data: testJPEG(t, 128, 128), ContentType: "image/jpeg"},
	}

	urls, err := u.UploadMany(files, "u1")
	require.NoError(t, err)
	require.Len(t, urls, 3)
	for i, url := range urls {
		path := store.PathFromURL(url)
		require.NotEmpty(t, path)
		assert.Equal(t, files[i].Data, store.objects[path], "url %d", i)
	}
}

func TestUploadManyFailurePropagates(t *testing.T) {
	store := newFakeObjectStore()
	store.failPut = true
	u := NewPhotoUsecase(store)

	_, err := u.UploadMany([]PhotoUpload{
		{Data: testJPEG(t, 8, 8), ContentType: "image/jpeg"},
	}, "u1")
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestDeleteManyBestEffort(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["listings/u1/a"] = []byte{1}
	store.objects["listings/u1/b"] = []byte{2}
	u := NewPhotoUsecase(store)

	// Foreign URLs are skipped, known ones removed.
	u.DeleteMany([]string{
		"https://elsewhere.example/photo.jpg",
		fakeStoreBase + "listings/u1/a",
	})
	assert.NotContains(t, store.objects, "listings/u1/a")
	assert.Contains(t, store.objects, "listings/u1/b")

	// A failing store never panics or reports.
	store.failDelete = true
	u.DeleteMany([]string{fakeStoreBase + "listings/u1/b"})
	assert.Contains(t, store.objects, "listings/u1/b")
}

func TestURLFromPath(t *testing.T) {
	u := NewPhotoUsecase(newFakeObjectStore())

	url, err := u.URLFromPath("listings/u1/key")
	require.NoError(t, err)
	assert.Equal(t, fakeStoreBase+"listings/u1/key", url)

	_, err = u.URLFromPath("   ")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
