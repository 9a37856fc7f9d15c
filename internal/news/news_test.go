package news

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"news-backend/internal/models"
	"news-backend/internal/storage"
	"news-backend/mocks"
)

func newSvc(t *testing.T) (*Service, *mocks.MockNewsStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := mocks.NewMockNewsStorage(ctrl)
	return New(store, nil), store
}

func verifiedAuthor() *models.User {
	return &models.User{ID: uuid.New(), Login: "author", Role: models.RoleUser, IsAuthorVerified: true}
}

func TestCreate_VerifiedAuthor_OK(t *testing.T) {
	svc, store := newSvc(t)
	actor := verifiedAuthor()
	content := json.RawMessage(`{"blocks":[{"type":"text","value":"hello"}]}`)

	var saved *models.News
	store.EXPECT().SaveNews(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *models.News) error {
			saved = n
			return nil
		})

	item, err := svc.Create(context.Background(), actor, "title", content)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Same(t, item, saved)
	require.Equal(t, actor.ID, item.AuthorID)
	require.NotEqual(t, uuid.Nil, item.ID)
	require.JSONEq(t, string(content), string(item.Content))
	require.Equal(t, item.CreatedAt, item.UpdatedAt)
}

func TestCreate_UnverifiedAuthor_Denied(t *testing.T) {
	svc, _ := newSvc(t)
	actor := &models.User{ID: uuid.New(), Role: models.RoleUser}

	_, err := svc.Create(context.Background(), actor, "title", nil)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreate_Guest_Denied(t *testing.T) {
	svc, _ := newSvc(t)

	_, err := svc.Create(context.Background(), nil, "title", nil)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc, _ := newSvc(t)

	_, err := svc.Create(context.Background(), verifiedAuthor(), "", nil)
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestList_ClampsLimit(t *testing.T) {
	svc, store := newSvc(t)

	store.EXPECT().ListNews(gomock.Any(), int32(defaultLimit), int32(0)).Return(nil, nil)
	store.EXPECT().ListNews(gomock.Any(), int32(maxLimit), int32(0)).Return(nil, nil)

	_, err := svc.List(context.Background(), 0, -5)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), maxLimit+1, 0)
	require.NoError(t, err)
}

func TestRecent_SinceWindow(t *testing.T) {
	svc, store := newSvc(t)

	store.EXPECT().RecentNews(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, since time.Time) ([]models.News, error) {
			require.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -3), since, time.Minute)
			return nil, nil
		})

	_, err := svc.Recent(context.Background(), 3)
	require.NoError(t, err)
}

func TestUpdate_Owner_OK(t *testing.T) {
	svc, store := newSvc(t)
	actor := verifiedAuthor()
	id := uuid.New()

	existing := &models.News{
		ID:       id,
		AuthorID: actor.ID,
		Title:    "old",
		Content:  json.RawMessage(`{"v":1}`),
	}
	store.EXPECT().NewsByID(gomock.Any(), id).Return(existing, nil)
	store.EXPECT().UpdateNews(gomock.Any(), existing).Return(nil)

	item, err := svc.Update(context.Background(), actor, id, "new", nil)
	require.NoError(t, err)
	require.Equal(t, "new", item.Title)
	// content без изменений, раз новый не передан
	require.JSONEq(t, `{"v":1}`, string(item.Content))
}

func TestUpdate_NotOwner_Denied(t *testing.T) {
	svc, store := newSvc(t)
	id := uuid.New()

	store.EXPECT().NewsByID(gomock.Any(), id).
		Return(&models.News{ID: id, AuthorID: uuid.New()}, nil)

	_, err := svc.Update(context.Background(), verifiedAuthor(), id, "new", nil)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdate_Admin_Foreign_OK(t *testing.T) {
	svc, store := newSvc(t)
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	id := uuid.New()

	store.EXPECT().NewsByID(gomock.Any(), id).
		Return(&models.News{ID: id, AuthorID: uuid.New(), Title: "old"}, nil)
	store.EXPECT().UpdateNews(gomock.Any(), gomock.Any()).Return(nil)

	item, err := svc.Update(context.Background(), admin, id, "moderated", nil)
	require.NoError(t, err)
	require.Equal(t, "moderated", item.Title)
}

func TestUpdate_Missing_NotFound(t *testing.T) {
	svc, store := newSvc(t)
	id := uuid.New()

	store.EXPECT().NewsByID(gomock.Any(), id).Return(nil, storage.ErrNotFound)

	_, err := svc.Update(context.Background(), verifiedAuthor(), id, "new", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Owner_OK(t *testing.T) {
	svc, store := newSvc(t)
	actor := verifiedAuthor()
	id := uuid.New()

	store.EXPECT().NewsByID(gomock.Any(), id).
		Return(&models.News{ID: id, AuthorID: actor.ID}, nil)
	store.EXPECT().DeleteNews(gomock.Any(), id).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), actor, id))
}

func TestDelete_NotOwner_Denied(t *testing.T) {
	svc, store := newSvc(t)
	id := uuid.New()

	store.EXPECT().NewsByID(gomock.Any(), id).
		Return(&models.News{ID: id, AuthorID: uuid.New()}, nil)

	err := svc.Delete(context.Background(), verifiedAuthor(), id)
	require.ErrorIs(t, err, ErrPermissionDenied)
}
