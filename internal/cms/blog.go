package cms

import (
	"context"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

// BlogInput carries blog form fields; nil means absent (kept on update).
type BlogInput struct {
	Title           *string
	CreatedBy       *string
	Date            *string
	Description     *string
	MoreDescription *string
	QuoteOfTheDay   *string
	SubTitle        *string
	SubDescription  *string
	Tags            *domain.FlexStrings
	ExtraPoints     *domain.FlexStrings
	ExtraTitle      *string
	SeoTitle        *string
	SeoKeywords     *domain.FlexStrings
	SeoDescription  *string
}

type BlogService struct {
	repo  BlogRepository
	store *assets.Store
	bus   EventBus.Bus
}

func NewBlogService(repo BlogRepository, store *assets.Store, bus EventBus.Bus) *BlogService {
	return &BlogService{repo: repo, store: store, bus: bus}
}

// Create requires a title; images are optional for posts. The slug uniqueness
// check runs before any file is placed.
func (s *BlogService) Create(ctx context.Context, in BlogInput, uploads []assets.Upload) (*domain.Blog, error) {
	title := deref(in.Title)
	if blank(title) {
		return nil, invalid("title", "title is required")
	}
	slug := common.Slugify(title)
	if slug == "" {
		return nil, invalid("title", "title must contain at least one slug character")
	}
	exists, err := s.repo.SlugExists(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrap(ErrConflict, "another blog with the same title already exists")
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	var images []string
	if len(uploads) > 0 {
		images, err = s.store.IngestMany(uploads, slug, nil)
		if err != nil {
			return nil, &StorageError{Op: "blog create", Err: err}
		}
	}

	b := &domain.Blog{
		ID:              common.UUIDint64(),
		Title:           strings.TrimSpace(title),
		Slug:            slug,
		CreatedBy:       strings.TrimSpace(deref(in.CreatedBy)),
		Date:            date,
		Description:     deref(in.Description),
		MoreDescription: deref(in.MoreDescription),
		QuoteOfTheDay:   deref(in.QuoteOfTheDay),
		SubTitle:        deref(in.SubTitle),
		SubDescription:  deref(in.SubDescription),
		Tags:            normalize(in.Tags),
		ExtraPoints:     normalize(in.ExtraPoints),
		ExtraTitle:      deref(in.ExtraTitle),
		Images:          images,
		SeoTitle:        deref(in.SeoTitle),
		SeoKeywords:     normalize(in.SeoKeywords),
		SeoDescription:  deref(in.SeoDescription),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.store.RemoveAll(images)
		return nil, err
	}

	publish(s.bus, "blog")
	return b, nil
}

// Update merges present fields. A title change recomputes the slug with a
// uniqueness recheck. New uploads replace the stored images (old files
// removed best-effort) unless appendImages is set.
func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput, uploads []assets.Upload, appendImages bool) (*domain.Blog, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && !blank(*in.Title) {
		newSlug := common.Slugify(*in.Title)
		if newSlug == "" {
			return nil, invalid("title", "title must contain at least one slug character")
		}
		if newSlug != b.Slug {
			exists, err := s.repo.SlugExists(ctx, newSlug, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errors.Wrap(ErrConflict, "another blog with this title already exists")
			}
		}
		b.Title = strings.TrimSpace(*in.Title)
		b.Slug = newSlug
	}

	if in.Date != nil {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, err
		}
		b.Date = date
	}

	setString(&b.CreatedBy, in.CreatedBy)
	setString(&b.Description, in.Description)
	setString(&b.MoreDescription, in.MoreDescription)
	setString(&b.QuoteOfTheDay, in.QuoteOfTheDay)
	setString(&b.SubTitle, in.SubTitle)
	setString(&b.SubDescription, in.SubDescription)
	setString(&b.ExtraTitle, in.ExtraTitle)
	setString(&b.SeoTitle, in.SeoTitle)
	setString(&b.SeoDescription, in.SeoDescription)

	if in.Tags != nil {
		b.Tags = in.Tags.Normalize()
	}
	if in.ExtraPoints != nil {
		b.ExtraPoints = in.ExtraPoints.Normalize()
	}
	if in.SeoKeywords != nil {
		b.SeoKeywords = in.SeoKeywords.Normalize()
	}

	if len(uploads) > 0 {
		// in append mode the stored names are off-limits for new files
		var taken []string
		if appendImages {
			taken = b.Images
		}
		newImages, err := s.store.IngestMany(uploads, b.Slug, taken)
		if err != nil {
			return nil, &StorageError{Op: "blog update", Err: err}
		}
		if appendImages {
			b.Images = append(b.Images, newImages...)
		} else {
			var stale []string
			for _, old := range b.Images {
				if !domain.StringList(newImages).Contains(old) {
					stale = append(stale, old)
				}
			}
			if result := s.store.RemoveAll(stale); !result.Ok() {
				zap.L().Warn("stale blog images left behind",
					zap.Int64("id", id),
					zap.Strings("files", result.Failed))
			}
			b.Images = newImages
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	publish(s.bus, "blog")
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result := s.store.RemoveAll(b.Images); !result.Ok() {
		zap.L().Warn("blog images left behind on delete",
			zap.Int64("id", id),
			zap.Strings("files", result.Failed))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, "blog")
	return nil
}

func (s *BlogService) Get(ctx context.Context, id int64) (*domain.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *BlogService) List(ctx context.Context, page, pageSize int) ([]domain.Blog, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

// setString assigns when present, including explicit empty values; blog
// fields may be cleared, unlike the product's required fields.
func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || blank(*raw) {
		return nil, nil
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(*raw))
	if err != nil {
		return nil, invalid("date", "unrecognized date format")
	}
	return &t, nil
}
