package cms

import (
	"context"
	"strings"

	"github.com/asaskevich/EventBus"

	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

// TestimonialInput carries testimonial form fields; nil means absent.
type TestimonialInput struct {
	Title       *string
	Rating      *int
	Content     *string
	Name        *string
	Designation *string
}

// TestimonialService has no asset interaction; testimonials are plain records.
type TestimonialService struct {
	repo TestimonialRepository
	bus  EventBus.Bus
}

func NewTestimonialService(repo TestimonialRepository, bus EventBus.Bus) *TestimonialService {
	return &TestimonialService{repo: repo, bus: bus}
}

func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (*domain.Testimonial, error) {
	if blank(deref(in.Title)) || blank(deref(in.Content)) ||
		blank(deref(in.Name)) || blank(deref(in.Designation)) || in.Rating == nil {
		return nil, invalid("fields", "title, rating, content, name and designation are required")
	}
	if *in.Rating < 1 || *in.Rating > 5 {
		return nil, invalid("rating", "rating must be between 1 and 5")
	}

	t := &domain.Testimonial{
		ID:          common.UUIDint64(),
		Title:       strings.TrimSpace(*in.Title),
		Rating:      *in.Rating,
		Content:     strings.TrimSpace(*in.Content),
		Name:        strings.TrimSpace(*in.Name),
		Designation: strings.TrimSpace(*in.Designation),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	publish(s.bus, "testimonial")
	return t, nil
}

func (s *TestimonialService) Update(ctx context.Context, id int64, in TestimonialInput) (*domain.Testimonial, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mergeString(&t.Title, in.Title)
	mergeString(&t.Content, in.Content)
	mergeString(&t.Name, in.Name)
	mergeString(&t.Designation, in.Designation)
	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return nil, invalid("rating", "rating must be between 1 and 5")
		}
		t.Rating = *in.Rating
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	publish(s.bus, "testimonial")
	return t, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, "testimonial")
	return nil
}

func (s *TestimonialService) Get(ctx context.Context, id int64) (*domain.Testimonial, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TestimonialService) List(ctx context.Context, page, pageSize int) ([]domain.Testimonial, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}
