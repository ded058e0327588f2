package cms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbond/sitecms/internal/assets"
)

func newBlogService(t *testing.T) (*BlogService, *assets.Store) {
	t.Helper()
	store := testStore(t)
	repo := NewGormBlogRepository(testDB(t))
	return NewBlogService(repo, store, testBus()), store
}

func TestBlogCreate(t *testing.T) {
	svc, store := newBlogService(t)
	b, err := svc.Create(context.Background(), BlogInput{
		Title:       str("Choosing The Right Adhesive"),
		CreatedBy:   str("editorial"),
		Date:        str("2024-03-15"),
		Tags:        flex("adhesives,guides"),
		ExtraPoints: flex(`["point one","point two"]`),
		SeoKeywords: flex("glue", "guide"),
	}, []assets.Upload{stageFile(t, "hero.png"), stageFile(t, "inline.jpg")})
	require.NoError(t, err)

	assert.Equal(t, "choosing-the-right-adhesive", b.Slug)
	require.NotNil(t, b.Date)
	assert.Equal(t, time.March, b.Date.Month())
	assert.Equal(t, []string{"adhesives", "guides"}, []string(b.Tags))
	assert.Equal(t, []string{"point one", "point two"}, []string(b.ExtraPoints))
	assert.Equal(t, []string{"glue", "guide"}, []string(b.SeoKeywords))
	assert.Equal(t, []string{"choosing-the-right-adhesive-1.png", "choosing-the-right-adhesive-2.jpg"}, []string(b.Images))
	for _, img := range b.Images {
		assert.True(t, store.Exists(img))
	}
}

func TestBlogCreateWithoutImages(t *testing.T) {
	svc, _ := newBlogService(t)
	b, err := svc.Create(context.Background(), BlogInput{Title: str("Text Only Post")}, nil)
	require.NoError(t, err)
	assert.Empty(t, b.Images)
}

func TestBlogCreateRequiresTitle(t *testing.T) {
	svc, _ := newBlogService(t)
	_, err := svc.Create(context.Background(), BlogInput{Description: str("no title")}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestBlogCreateBadDate(t *testing.T) {
	svc, _ := newBlogService(t)
	_, err := svc.Create(context.Background(), BlogInput{
		Title: str("Dated"),
		Date:  str("not a date at all"),
	}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestBlogSlugConflict(t *testing.T) {
	svc, _ := newBlogService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, BlogInput{Title: str("Same Title")}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, BlogInput{Title: str("Same  Title")}, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBlogUpdateRecomputesSlugAndReplacesImages(t *testing.T) {
	svc, store := newBlogService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, BlogInput{Title: str("Old Title")},
		[]assets.Upload{stageFile(t, "a.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{"old-title.png"}, []string(b.Images))

	updated, err := svc.Update(ctx, b.ID, BlogInput{Title: str("New Title")},
		[]assets.Upload{stageFile(t, "b.png"), stageFile(t, "c.png")}, false)
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
	assert.Equal(t, []string{"new-title-1.png", "new-title-2.png"}, []string(updated.Images))
	assert.False(t, store.Exists("old-title.png"))
}

func TestBlogUpdateAppendKeepsExistingImages(t *testing.T) {
	svc, store := newBlogService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, BlogInput{Title: str("Album Post")},
		[]assets.Upload{stageFile(t, "a.png"), stageFile(t, "b.png")})
	require.NoError(t, err)
	require.Equal(t, []string{"album-post-1.png", "album-post-2.png"}, []string(b.Images))

	updated, err := svc.Update(ctx, b.ID, BlogInput{},
		[]assets.Upload{stageFile(t, "c.png")}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"album-post-1.png", "album-post-2.png", "album-post-3.png"},
		[]string(updated.Images))
	for _, img := range updated.Images {
		assert.True(t, store.Exists(img))
	}
}

func TestBlogUpdateClearsOptionalField(t *testing.T) {
	svc, _ := newBlogService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, BlogInput{
		Title:         str("Post"),
		QuoteOfTheDay: str("stick with it"),
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, BlogInput{QuoteOfTheDay: str("")}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "", updated.QuoteOfTheDay)
	assert.Equal(t, "Post", updated.Title)
}

func TestBlogDeleteRemovesImages(t *testing.T) {
	svc, store := newBlogService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, BlogInput{Title: str("Doomed Post")},
		[]assets.Upload{stageFile(t, "a.png"), stageFile(t, "b.png")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))
	for _, img := range b.Images {
		assert.False(t, store.Exists(img))
	}
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlogGetBySlug(t *testing.T) {
	svc, _ := newBlogService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, BlogInput{Title: str("Find Me")}, nil)
	require.NoError(t, err)

	b, err := svc.GetBySlug(ctx, "find-me")
	require.NoError(t, err)
	assert.Equal(t, "Find Me", b.Title)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
