package usecase

import (
	"time"

	"bazaar-backend/dao"
	"bazaar-backend/model"
	"bazaar-backend/pkg/apperr"
)

type ISORepo interface {
	GetByID(id string) (*model.ISO, error)
	List(category string, found bool, cursor *dao.PageCursor) ([]model.ISO, error)
	ListByOwner(ownerID string, includeFound bool, cursor *dao.PageCursor) ([]model.ISO, error)
	Insert(iso *model.ISO) error
	Update(id string, fields map[string]any) error
	Delete(id string) error
}

// ISOUsecase is the wanted-post twin of ListingUsecase; "found" plays the
// role of "sold".
type ISOUsecase struct {
	repo   ISORepo
	users  UserRepo
	photos *PhotoUsecase
}

func NewISOUsecase(repo ISORepo, users UserRepo, photos *PhotoUsecase) *ISOUsecase {
	return &ISOUsecase{repo: repo, users: users, photos: photos}
}

func (u *ISOUsecase) GetISO(id string) (*model.ISO, error) {
	iso, err := u.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to fetch ISO post. Please try again.", err)
	}
	return iso, nil
}

func (u *ISOUsecase) GetISOs(category string, found bool, cursorToken string) ([]model.ISO, string, error) {
	cursor, err := dao.DecodeCursor(cursorToken)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInvalidArgument, "Invalid page cursor.", err)
	}
	isos, err := u.repo.List(category, found, cursor)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to fetch ISO posts. Please try again.", err)
	}
	return isos, nextCursorISOs(isos), nil
}

func (u *ISOUsecase) GetISOsByUser(ownerID string, includeFound bool, cursorToken string) ([]model.ISO, string, error) {
	cursor, err := dao.DecodeCursor(cursorToken)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInvalidArgument, "Invalid page cursor.", err)
	}
	isos, err := u.repo.ListByOwner(ownerID, includeFound, cursor)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, "Failed to fetch your ISO posts. Please try again.", err)
	}
	return isos, nextCursorISOs(isos), nil
}

func (u *ISOUsecase) CreateISO(ownerID string, iso *model.ISO) (*model.ISO, error) {
	owner, err := u.users.GetByID(ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to create ISO post. Please try again.", err)
	}
	if owner == nil {
		return nil, apperr.New(apperr.CodePermissionDenied, "You must be logged in to create an ISO post.")
	}

	now := time.Now().UTC()
	iso.ID = newID()
	iso.UserID = owner.ID
	iso.SellerName = owner.DisplayName
	iso.SellerEmail = owner.Email
	iso.Found = false
	iso.CreatedAt = now
	iso.UpdatedAt = now

	if err := u.repo.Insert(iso); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Failed to create ISO post. Please try again.", err)
	}
	return iso, nil
}

func (u *ISOUsecase) UpdateISO(callerID, id string, fields map[string]any) error {
	iso, err := u.GetISO(id)
	if err != nil {
		return err
	}
	if iso == nil {
		return apperr.New(apperr.CodeNotFound, "ISO post not found.")
	}
	if iso.UserID != callerID {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to edit this ISO post.")
	}
	if err := u.repo.Update(id, fields); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to update ISO post. Please try again.", err)
	}
	return nil
}

func (u *ISOUsecase) MarkFound(callerID, id string) error {
	return u.UpdateISO(callerID, id, map[string]any{"found": true})
}

func (u *ISOUsecase) DeleteISO(callerID, id string, photoURLs []string) error {
	iso, err := u.GetISO(id)
	if err != nil {
		return err
	}
	if iso == nil {
		return apperr.New(apperr.CodeNotFound, "ISO post not found.")
	}
	if iso.UserID != callerID {
		return apperr.New(apperr.CodePermissionDenied, "You do not have permission to delete this ISO post.")
	}

	if err := u.repo.Delete(id); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Failed to delete ISO post. Please try again.", err)
	}

	if len(photoURLs) == 0 {
		photoURLs = iso.ImageURLs
	}
	u.photos.DeleteMany(photoURLs)
	return nil
}

func nextCursorISOs(page []model.ISO) string {
	if len(page) < dao.PageSize {
		return ""
	}
	last := page[len(page)-1]
	return dao.EncodeCursor(last.CreatedAt, last.ID)
}
