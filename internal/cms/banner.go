package cms

import (
	"context"
	"strings"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

// BannerInput carries banner form fields; nil means absent (kept on update).
type BannerInput struct {
	Title       *string
	Subtitle    *string
	Description *string
	Link        *string
	IsActive    *bool
}

type BannerService struct {
	repo  BannerRepository
	store *assets.Store
	bus   EventBus.Bus
}

func NewBannerService(repo BannerRepository, store *assets.Store, bus EventBus.Bus) *BannerService {
	return &BannerService{repo: repo, store: store, bus: bus}
}

// Create requires a title and exactly one image. Banners carry no slug; the
// image keeps its slugified original base name.
func (s *BannerService) Create(ctx context.Context, in BannerInput, upload *assets.Upload) (*domain.Banner, error) {
	title := deref(in.Title)
	if blank(title) {
		return nil, invalid("title", "title is required")
	}
	if upload == nil {
		return nil, invalid("image", "banner image is required")
	}

	image, err := s.store.Ingest(*upload, "")
	if err != nil {
		return nil, &StorageError{Op: "banner create", Err: err}
	}

	b := &domain.Banner{
		ID:          common.UUIDint64(),
		Title:       strings.TrimSpace(title),
		Subtitle:    strings.TrimSpace(deref(in.Subtitle)),
		Description: deref(in.Description),
		Link:        strings.TrimSpace(deref(in.Link)),
		Image:       image,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.store.Remove(image)
		return nil, err
	}

	publish(s.bus, "banner")
	return b, nil
}

// Update merges present fields; a new upload replaces the stored image and
// the old file is removed best-effort once unreferenced.
func (s *BannerService) Update(ctx context.Context, id int64, in BannerInput, upload *assets.Upload) (*domain.Banner, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mergeString(&b.Title, in.Title)
	mergeString(&b.Subtitle, in.Subtitle)
	mergeString(&b.Link, in.Link)
	setString(&b.Description, in.Description)
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}

	if upload != nil {
		image, err := s.store.Ingest(*upload, "")
		if err != nil {
			return nil, &StorageError{Op: "banner update", Err: err}
		}
		if b.Image != "" && b.Image != image {
			if result := s.store.Remove(b.Image); !result.Ok() {
				zap.L().Warn("stale banner image left behind",
					zap.Int64("id", id),
					zap.String("file", b.Image))
			}
		}
		b.Image = image
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	publish(s.bus, "banner")
	return b, nil
}

func (s *BannerService) Delete(ctx context.Context, id int64) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result := s.store.Remove(b.Image); !result.Ok() {
		zap.L().Warn("banner image left behind on delete",
			zap.Int64("id", id),
			zap.String("file", b.Image))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, "banner")
	return nil
}

// ToggleActive flips the visibility flag. No asset interaction.
func (s *BannerService) ToggleActive(ctx context.Context, id int64) (*domain.Banner, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.IsActive = !b.IsActive
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	publish(s.bus, "banner")
	return b, nil
}

func (s *BannerService) Get(ctx context.Context, id int64) (*domain.Banner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BannerService) List(ctx context.Context, filter BannerFilter, page, pageSize int) ([]domain.Banner, int64, error) {
	return s.repo.List(ctx, filter, page, pageSize)
}
