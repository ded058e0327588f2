package cms

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/craftbond/sitecms/internal/domain"
)

// ProductFilter narrows product listings. Search matches title or description
// case-insensitively; IsActive filters on the visibility flag when set.
type ProductFilter struct {
	Search   string
	IsActive *bool
}

// BannerFilter narrows banner listings.
type BannerFilter struct {
	IsActive *bool
}

// ProductRepository is the persistence contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	// SlugExists reports whether another product (excludeID excluded) holds
	// the slug. This is the fast-path check; the unique index is the real one.
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]domain.Product, int64, error)
}

// BlogRepository is the persistence contract for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, b *domain.Blog) error
	GetByID(ctx context.Context, id int64) (*domain.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Update(ctx context.Context, b *domain.Blog) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) ([]domain.Blog, int64, error)
}

// BannerRepository is the persistence contract for banners.
type BannerRepository interface {
	Create(ctx context.Context, b *domain.Banner) error
	GetByID(ctx context.Context, id int64) (*domain.Banner, error)
	Update(ctx context.Context, b *domain.Banner) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter BannerFilter, page, pageSize int) ([]domain.Banner, int64, error)
}

// TestimonialRepository is the persistence contract for testimonials.
type TestimonialRepository interface {
	Create(ctx context.Context, t *domain.Testimonial) error
	GetByID(ctx context.Context, id int64) (*domain.Testimonial, error)
	Update(ctx context.Context, t *domain.Testimonial) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) ([]domain.Testimonial, int64, error)
}

// translateErr maps gorm errors onto the service error kinds.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return ErrNotFound
	case isDuplicate(err):
		return ErrConflict
	default:
		return err
	}
}

func isNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound || strings.Contains(err.Error(), "record not found")
}

func isDuplicate(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func pageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

// GormProductRepository is the GORM implementation of ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return translateErr(r.db.WithContext(ctx).Create(p).Error)
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *GormProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *GormProductRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return translateErr(r.db.WithContext(ctx).Save(p).Error)
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]domain.Product, int64, error) {
	page, pageSize = pageBounds(page, pageSize)
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Product
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error
	return rows, total, err
}

// GormBlogRepository is the GORM implementation of BlogRepository.
type GormBlogRepository struct {
	db *gorm.DB
}

func NewGormBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

func (r *GormBlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	return translateErr(r.db.WithContext(ctx).Create(b).Error)
}

func (r *GormBlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	var b domain.Blog
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &b, nil
}

func (r *GormBlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	var b domain.Blog
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error; err != nil {
		return nil, translateErr(err)
	}
	return &b, nil
}

func (r *GormBlogRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Blog{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	return translateErr(r.db.WithContext(ctx).Save(b).Error)
}

func (r *GormBlogRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Blog{}, id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBlogRepository) List(ctx context.Context, page, pageSize int) ([]domain.Blog, int64, error) {
	page, pageSize = pageBounds(page, pageSize)
	q := r.db.WithContext(ctx).Model(&domain.Blog{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Blog
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error
	return rows, total, err
}

// GormBannerRepository is the GORM implementation of BannerRepository.
type GormBannerRepository struct {
	db *gorm.DB
}

func NewGormBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

func (r *GormBannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	return translateErr(r.db.WithContext(ctx).Create(b).Error)
}

func (r *GormBannerRepository) GetByID(ctx context.Context, id int64) (*domain.Banner, error) {
	var b domain.Banner
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &b, nil
}

func (r *GormBannerRepository) Update(ctx context.Context, b *domain.Banner) error {
	return translateErr(r.db.WithContext(ctx).Save(b).Error)
}

func (r *GormBannerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Banner{}, id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBannerRepository) List(ctx context.Context, filter BannerFilter, page, pageSize int) ([]domain.Banner, int64, error) {
	page, pageSize = pageBounds(page, pageSize)
	q := r.db.WithContext(ctx).Model(&domain.Banner{})
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Banner
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error
	return rows, total, err
}

// GormTestimonialRepository is the GORM implementation of TestimonialRepository.
type GormTestimonialRepository struct {
	db *gorm.DB
}

func NewGormTestimonialRepository(db *gorm.DB) *GormTestimonialRepository {
	return &GormTestimonialRepository{db: db}
}

func (r *GormTestimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	return translateErr(r.db.WithContext(ctx).Create(t).Error)
}

func (r *GormTestimonialRepository) GetByID(ctx context.Context, id int64) (*domain.Testimonial, error) {
	var t domain.Testimonial
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &t, nil
}

func (r *GormTestimonialRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	return translateErr(r.db.WithContext(ctx).Save(t).Error)
}

func (r *GormTestimonialRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Testimonial{}, id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormTestimonialRepository) List(ctx context.Context, page, pageSize int) ([]domain.Testimonial, int64, error) {
	page, pageSize = pageBounds(page, pageSize)
	q := r.db.WithContext(ctx).Model(&domain.Testimonial{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Testimonial
	err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error
	return rows, total, err
}
