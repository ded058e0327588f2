package app

import (
	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"

	"github.com/craftbond/sitecms/config"
	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/cms"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// BusProvider provides the in-process event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// AssetsProvider provides the upload file store
type AssetsProvider interface {
	Assets() *assets.Store
}

// ContentProvider provides the content lifecycle services
type ContentProvider interface {
	Products() *cms.ProductService
	Blogs() *cms.BlogService
	Banners() *cms.BannerService
	Testimonials() *cms.TestimonialService
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	BusProvider
	AssetsProvider
	ContentProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
