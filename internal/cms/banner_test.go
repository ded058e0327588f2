package cms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbond/sitecms/internal/assets"
)

func newBannerService(t *testing.T) (*BannerService, *assets.Store) {
	t.Helper()
	store := testStore(t)
	repo := NewGormBannerRepository(testDB(t))
	return NewBannerService(repo, store, testBus()), store
}

func TestBannerCreateRequiresTitleAndImage(t *testing.T) {
	svc, _ := newBannerService(t)
	ctx := context.Background()

	up := stageFile(t, "promo.png")
	_, err := svc.Create(ctx, BannerInput{}, &up)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Create(ctx, BannerInput{Title: str("Spring Sale")}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Field)
}

func TestBannerUpdateReplacesImage(t *testing.T) {
	svc, store := newBannerService(t)
	ctx := context.Background()
	up := stageFile(t, "first.png")
	b, err := svc.Create(ctx, BannerInput{Title: str("Hero")}, &up)
	require.NoError(t, err)
	assert.Equal(t, "first.png", b.Image)

	replacement := stageFile(t, "second.png")
	updated, err := svc.Update(ctx, b.ID, BannerInput{Subtitle: str("Now On")}, &replacement)
	require.NoError(t, err)
	assert.Equal(t, "second.png", updated.Image)
	assert.Equal(t, "Now On", updated.Subtitle)
	assert.False(t, store.Exists("first.png"))
	assert.True(t, store.Exists("second.png"))
}

func TestBannerUpdateWithoutImageKeepsFile(t *testing.T) {
	svc, store := newBannerService(t)
	ctx := context.Background()
	up := stageFile(t, "keep.png")
	b, err := svc.Create(ctx, BannerInput{Title: str("Hero")}, &up)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, BannerInput{Title: str("Hero Two")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "keep.png", updated.Image)
	assert.True(t, store.Exists("keep.png"))
}

// Full lifecycle: create, toggle, delete, gone.
func TestBannerEndToEnd(t *testing.T) {
	svc, store := newBannerService(t)
	ctx := context.Background()

	up := stageFile(t, "promo.png")
	b, err := svc.Create(ctx, BannerInput{Title: str("Spring Sale")}, &up)
	require.NoError(t, err)
	assert.True(t, b.IsActive)
	assert.Equal(t, "promo.png", b.Image)
	assert.True(t, store.Exists(b.Image))

	toggled, err := svc.ToggleActive(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.False(t, store.Exists("promo.png"))
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBannerListActiveFilter(t *testing.T) {
	svc, _ := newBannerService(t)
	ctx := context.Background()
	for _, title := range []string{"One", "Two", "Three"} {
		up := stageFile(t, title+".png")
		_, err := svc.Create(ctx, BannerInput{Title: str(title)}, &up)
		require.NoError(t, err)
	}
	rows, _, err := svc.List(ctx, BannerFilter{}, 1, 10)
	require.NoError(t, err)
	_, err = svc.ToggleActive(ctx, rows[0].ID)
	require.NoError(t, err)

	active := true
	rows, total, err := svc.List(ctx, BannerFilter{IsActive: &active}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
}
