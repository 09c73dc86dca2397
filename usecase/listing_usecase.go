package usecase

import (
	"time"

	"bazaar-backend/dao"
	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
)

type ListingRepo interface {
	GetByID(id string) (*model.Listing, error)
	List(category string, sold bool, cursor *dao.PageCursor) ([]model.Listing, error)
	ListByOwner(ownerID string, includeSold bool, cursor *dao.PageCursor) ([]model.Listing, error)
	Insert(l *model.Listing) error
	Update(id string, fields map[string]any) error
	Delete(id string) error
}

type ListingUsecase struct {
	repo   ListingRepo
	users  UserRepo
	photos *PhotoUsecase
}

func NewListingUsecase(repo ListingRepo, users UserRepo, photos *PhotoUsecase) *ListingUsecase {
	return &ListingUsecase{repo: repo, users: users, photos: photos}
}

func (u *ListingUsecase) GetListing(id string) (*model.Listing, error) {
	l, err := u.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to fetch listing. Please try again.", err)
	}
	return l, nil
}

// GetListings returns one bulletin-board page plus the cursor for the
// next, or "" when this page is short.
func (u *ListingUsecase) GetListings(category string, sold bool, cursorToken string) ([]model.Listing, string, error) {
	cursor, err := dao.DecodeCursor(cursorToken)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInvalidArgument, "Invalid page cursor.", err)
	}
	listings, err := u.repo.List(category, sold, cursor)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to fetch listings. Please try again.", err)
	}
	return listings, nextCursorListings(listings), nil
}

func (u *ListingUsecase) GetListingsByUser(ownerID string, includeSold bool, cursorToken string) ([]model.Listing, string, error) {
	cursor, err := dao.DecodeCursor(cursorToken)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInvalidArgument, "Invalid page cursor.", err)
	}
	listings, err := u.repo.ListByOwner(ownerID, includeSold, cursor)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to fetch your listings. Please try again.", err)
	}
	return listings, nextCursorListings(listings), nil
}

// CreateListing stamps ownership, the open flag and timestamps, and
// snapshots the seller's display name and email as they are right now.
// The snapshots are not kept in sync with later profile edits.
func (u *ListingUsecase) CreateListing(ownerID string, l *model.Listing) (*model.Listing, error) {
	owner, err := u.users.GetByID(ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to create listing. Please try again.", err)
	}
	if owner == nil {
		return nil, apperr.New(apperr.CodePermissionDenied, "You must be logged in to create a listing.")
	}

	now := time.Now().UTC()
	l.ID = newID()
	l.UserID = owner.ID
	l.SellerName = owner.DisplayName
	l.SellerEmail = owner.Email
	l.Sold = false
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := u.repo.Insert(l); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to create listing. Please try again.", err)
	}
	return l, nil
}

// UpdateListing merge-patches the owner's listing.
func (u *ListingUsecase) UpdateListing(callerID, id string, fields map[string]any) error {
	listing, err := u.GetListing(id)
	if err != nil {
		return err
	}
	if listing == nil {
		return apperr.New(apperr.CodeNotFound, "Listing not found.")
	}
	if listing.UserID != callerID {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to edit this listing.")
	}
	if err := u.repo.Update(id, fields); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to update listing. Please try again.", err)
	}
	return nil
}

// MarkSold flips the closing flag; the record stays.
func (u *ListingUsecase) MarkSold(callerID, id string) error {
	return u.UpdateListing(callerID, id, map[string]any{"sold": true})
}

// DeleteListing removes the document, then best-effort deletes the
// referenced photos. Photo cleanup failures are logged, never fatal, and
// the document delete is not rolled back: deletion is deliberately not
// transactional with photo cleanup.
func (u *ListingUsecase) DeleteListing(callerID, id string, photoURLs []string) error {
	listing, err := u.GetListing(id)
	if err != nil {
		return err
	}
	if listing == nil {
		return apperr.New(apperr.CodeNotFound, "Listing not found.")
	}
	if listing.UserID != callerID {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to delete this listing.")
	}

	if err := u.repo.Delete(id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to delete listing. Please try again.", err)
	}

	if len(photoURLs) == 0 {
		photoURLs = listing.ImageURLs
	}
	u.photos.DeleteMany(photoURLs)
	return nil
}

func nextCursorListings(page []model.Listing) string {
	if len(page) < dao.PageSize {
		return ""
	}
	last := page[len(page)-1]
	return dao.EncodeCursor(last.CreatedAt, last.ID)
}
