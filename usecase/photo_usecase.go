package usecase

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jww "github.com/spf13/jwalterweatherman"

	"bazaar-backend/pkg/apperr"
	"bazaar-backend/pkg/imageutil"
)

const (
	maxPhotosPerListing = 5
	photoPathPrefix     = "listings"
)

// ObjectStore is the binary object storage contract. dao.PhotoStore is the
// filesystem implementation.
type ObjectStore interface {
	Put(path string, data []byte) error
	Delete(path string) error
	URL(path string) (string, error)
	PathFromURL(url string) string
}

type PhotoUpload struct {
	Data        []byte
	ContentType string
}

type PhotoUsecase struct {
	store ObjectStore
}

func NewPhotoUsecase(store ObjectStore) *PhotoUsecase {
	return &PhotoUsecase{store: store}
}

// UploadOne validates, compresses and stores a single photo, returning its
// public URL. Validation failures happen before any storage I/O.
func (u *PhotoUsecase) UploadOne(p PhotoUpload, ownerID string) (string, error) {
	if !strings.HasPrefix(p.ContentType, "image/") {
		return "", apperr.New(apperr.CodeInvalidArgument, "File must be an image (JPEG, PNG, or GIF).")
	}
	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return "", apperr.New(apperr.CodeInvalidArgument, "User ID is required to upload photos.")
	}

	compressed, err := imageutil.Compress(p.Data)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInvalidArgument, "File must be a valid image.", err)
	}

	// Time component plus random suffix keeps keys collision-resistant
	// without coordination.
	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
	objectPath := path.Join(photoPathPrefix, owner, key)
	if err := u.store.Put(objectPath, compressed); err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "Failed to upload photo. Please try again.", err)
	}
	url, err := u.store.URL(objectPath)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "Failed to upload photo. Please try again.", err)
	}
	return url, nil
}

// UploadMany uploads 1-5 photos concurrently. All must succeed, and the
// returned URLs keep the input order regardless of completion order.
func (u *PhotoUsecase) UploadMany(files []PhotoUpload, ownerID string) ([]string, error) {
	if len(files) == 0 || len(files) > maxPhotosPerListing {
		return nil, apperr.New(apperr.CodeInvalidArgument, "Please upload 1-5 photos.")
	}

	urls := make([]string, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f PhotoUpload) {
			defer wg.Done()
			urls[i], errs[i] = u.UploadOne(f, ownerID)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

// DeleteMany removes stored photos by URL, concurrently and best-effort:
// individual failures are logged, never surfaced, and a partial failure is
// not reported as an overall one.
func (u *PhotoUsecase) DeleteMany(urls []string) {
	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			p := u.store.PathFromURL(url)
			if p == "" {
				return
			}
			if err := u.store.Delete(p); err != nil {
				jww.WARN.Printf("photo: delete %s: %v", p, err)
			}
		}(url)
	}
	wg.Wait()
}

// URLFromPath resolves a storage path to its public URL.
func (u *PhotoUsecase) URLFromPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", apperr.New(apperr.CodeInvalidArgument, "Path is required.")
	}
	url, err := u.store.URL(p)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "Failed to get photo URL.", err)
	}
	return url, nil
}
