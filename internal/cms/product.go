package cms

import (
	"context"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

// ProductInput carries the fields of a create or update request. Nil pointers
// mean "field absent": on update, absent fields keep their stored values.
// This partial-update behavior is deliberate, not an accident of binding.
type ProductInput struct {
	Title               *string
	Description         *string
	SubDescription      *string
	ChemicalBase        *string
	Appearance          *string
	ShelfLife           *string
	CureTime            *string
	ApplicationTips     *string
	AvailablePacks      *domain.FlexStrings
	KeyFeatures         *domain.FlexStrings
	SeoTitle            *string
	SeoKeywords         *domain.FlexStrings
	SeoDescription      *string
	QuestionsAndAnswers *string
	IsActive            *bool
}

// ProductService sequences slug generation, uniqueness checks, asset
// placement and persistence for products.
type ProductService struct {
	repo  ProductRepository
	store *assets.Store
	bus   EventBus.Bus
}

func NewProductService(repo ProductRepository, store *assets.Store, bus EventBus.Bus) *ProductService {
	return &ProductService{repo: repo, store: store, bus: bus}
}

// Create validates, computes the slug, pre-checks uniqueness before any file
// is touched, ingests uploads, then persists. A slug collision never leaves
// orphaned files behind.
func (s *ProductService) Create(ctx context.Context, in ProductInput, uploads []assets.Upload) (*domain.Product, error) {
	title := deref(in.Title)
	description := deref(in.Description)
	if blank(title) || blank(description) {
		return nil, invalid("title", "title and description are required")
	}
	if len(uploads) == 0 {
		return nil, invalid("images", "at least one product image is required")
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
		return nil, errors.Wrap(ErrConflict, "another product with the same title already exists")
	}

	packs := normalize(in.AvailablePacks)
	if len(packs) == 0 {
		return nil, invalid("availablePacks", "at least one available pack is required")
	}
	qas, err := parseQAs(deref(in.QuestionsAndAnswers))
	if err != nil {
		return nil, err
	}

	images, err := s.store.IngestMany(uploads, slug, nil)
	if err != nil {
		return nil, &StorageError{Op: "product create", Err: err}
	}

	p := &domain.Product{
		ID:                  common.UUIDint64(),
		Title:               strings.TrimSpace(title),
		Slug:                slug,
		Description:         strings.TrimSpace(description),
		SubDescription:      strings.TrimSpace(deref(in.SubDescription)),
		ChemicalBase:        strings.TrimSpace(deref(in.ChemicalBase)),
		Appearance:          strings.TrimSpace(deref(in.Appearance)),
		ShelfLife:           strings.TrimSpace(deref(in.ShelfLife)),
		CureTime:            strings.TrimSpace(deref(in.CureTime)),
		ApplicationTips:     strings.TrimSpace(deref(in.ApplicationTips)),
		AvailablePacks:      packs,
		KeyFeatures:         normalize(in.KeyFeatures),
		Images:              images,
		QuestionsAndAnswers: qas,
		SeoTitle:            strings.TrimSpace(deref(in.SeoTitle)),
		SeoKeywords:         normalize(in.SeoKeywords),
		SeoDescription:      strings.TrimSpace(deref(in.SeoDescription)),
		IsActive:            in.IsActive == nil || *in.IsActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// the unique index caught a race the pre-check missed; the ingested
		// files are unreferenced, clean them up
		s.store.RemoveAll(images)
		return nil, err
	}

	publish(s.bus, "product")
	return p, nil
}

// Update merges present fields over the stored product. A title change
// recomputes the slug and rechecks uniqueness excluding the product itself.
// New uploads either append to or replace the image list per appendImages;
// replaced files are deleted best-effort after they are no longer referenced.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput, uploads []assets.Upload, appendImages bool) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && !blank(*in.Title) {
		newSlug := common.Slugify(*in.Title)
		if newSlug == "" {
			return nil, invalid("title", "title must contain at least one slug character")
		}
		if newSlug != p.Slug {
			exists, err := s.repo.SlugExists(ctx, newSlug, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errors.Wrap(ErrConflict, "another product with this title already exists")
			}
		}
		p.Title = strings.TrimSpace(*in.Title)
		p.Slug = newSlug
	}

	mergeString(&p.Description, in.Description)
	mergeString(&p.SubDescription, in.SubDescription)
	mergeString(&p.ChemicalBase, in.ChemicalBase)
	mergeString(&p.Appearance, in.Appearance)
	mergeString(&p.ShelfLife, in.ShelfLife)
	mergeString(&p.CureTime, in.CureTime)
	mergeString(&p.ApplicationTips, in.ApplicationTips)
	mergeString(&p.SeoTitle, in.SeoTitle)
	mergeString(&p.SeoDescription, in.SeoDescription)
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if in.AvailablePacks != nil {
		packs := in.AvailablePacks.Normalize()
		if len(packs) == 0 {
			return nil, invalid("availablePacks", "at least one available pack is required")
		}
		p.AvailablePacks = packs
	}
	if in.KeyFeatures != nil {
		p.KeyFeatures = in.KeyFeatures.Normalize()
	}
	if in.SeoKeywords != nil {
		p.SeoKeywords = in.SeoKeywords.Normalize()
	}
	if in.QuestionsAndAnswers != nil {
		qas, err := parseQAs(*in.QuestionsAndAnswers)
		if err != nil {
			return nil, err
		}
		p.QuestionsAndAnswers = qas
	}

	if blank(p.Title) || blank(p.Description) {
		return nil, invalid("title", "title and description are required")
	}

	if len(uploads) > 0 {
		// in append mode the stored names are off-limits for new files
		var taken []string
		if appendImages {
			taken = p.Images
		}
		newImages, err := s.store.IngestMany(uploads, p.Slug, taken)
		if err != nil {
			return nil, &StorageError{Op: "product update", Err: err}
		}
		if appendImages {
			p.Images = append(p.Images, newImages...)
		} else {
			// replacement may reuse names when the slug is unchanged; only
			// delete stored files the new list no longer references
			var stale []string
			for _, old := range p.Images {
				if !domain.StringList(newImages).Contains(old) {
					stale = append(stale, old)
				}
			}
			if result := s.store.RemoveAll(stale); !result.Ok() {
				zap.L().Warn("stale product images left behind",
					zap.Int64("id", id),
					zap.Strings("files", result.Failed))
			}
			p.Images = newImages
		}
	}
	if len(p.Images) == 0 {
		return nil, invalid("images", "at least one product image is required")
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	publish(s.bus, "product")
	return p, nil
}

// Delete removes the record and its stored images. File deletion is
// best-effort; the database record is the source of truth and a stray file is
// only a leak.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result := s.store.RemoveAll(p.Images); !result.Ok() {
		zap.L().Warn("product images left behind on delete",
			zap.Int64("id", id),
			zap.Strings("files", result.Failed))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, "product")
	return nil
}

// ToggleActive flips the visibility flag. No asset interaction.
func (s *ProductService) ToggleActive(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	publish(s.bus, "product")
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *ProductService) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]domain.Product, int64, error) {
	return s.repo.List(ctx, filter, page, pageSize)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mergeString(dst *string, src *string) {
	if src != nil && !blank(*src) {
		*dst = strings.TrimSpace(*src)
	}
}

func normalize(f *domain.FlexStrings) []string {
	if f == nil {
		return []string{}
	}
	return f.Normalize()
}
