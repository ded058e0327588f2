package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/craftbond/sitecms/internal/cms"
)

// registerPublicRoutes wires the storefront read surface. Only active
// products and banners are visible here; blogs and testimonials carry no
// visibility flag and are always listable.
func (s *WebServer) registerPublicRoutes() {
	s.pub.GET("/api/home", s.handleHome)
	s.pub.GET("/api/products", s.handlePublicProducts)
	s.pub.GET("/api/products/:slug", s.handlePublicProductBySlug)
	s.pub.GET("/api/blogs", s.handlePublicBlogs)
	s.pub.GET("/api/blogs/:slug", s.handlePublicBlogBySlug)
	s.pub.GET("/api/banners", s.handlePublicBanners)
	s.pub.GET("/api/testimonials", s.handlePublicTestimonials)
	s.pub.POST("/api/contact", s.handleContact)
}

func active() *bool {
	v := true
	return &v
}

// handleHome aggregates the home page data in one round trip.
func (s *WebServer) handleHome(c echo.Context) error {
	ctx := c.Request().Context()

	banners, _, err := s.appctx.Banners().List(ctx, cms.BannerFilter{IsActive: active()}, 1, 4)
	if err != nil {
		return err
	}
	products, _, err := s.appctx.Products().List(ctx, cms.ProductFilter{IsActive: active()}, 1, 12)
	if err != nil {
		return err
	}
	blogs, _, err := s.appctx.Blogs().List(ctx, 1, 3)
	if err != nil {
		return err
	}
	testimonials, _, err := s.appctx.Testimonials().List(ctx, 1, 10)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"code": 0,
		"data": echo.Map{
			"banners":      banners,
			"products":     products,
			"blogs":        blogs,
			"testimonials": testimonials,
		},
	})
}

func (s *WebServer) handlePublicProducts(c echo.Context) error {
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	rows, total, err := s.appctx.Products().List(c.Request().Context(), cms.ProductFilter{
		Search:   c.QueryParam("search"),
		IsActive: active(),
	}, page, 12)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": rows, "totalCount": total})
}

func (s *WebServer) handlePublicProductBySlug(c echo.Context) error {
	p, err := s.appctx.Products().GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"code": 1, "error": "product not found"})
	}
	if !p.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"code": 1, "error": "product not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": p})
}

func (s *WebServer) handlePublicBlogs(c echo.Context) error {
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	rows, total, err := s.appctx.Blogs().List(c.Request().Context(), page, 12)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": rows, "totalCount": total})
}

func (s *WebServer) handlePublicBlogBySlug(c echo.Context) error {
	b, err := s.appctx.Blogs().GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"code": 1, "error": "blog not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": b})
}

func (s *WebServer) handlePublicBanners(c echo.Context) error {
	rows, _, err := s.appctx.Banners().List(c.Request().Context(), cms.BannerFilter{IsActive: active()}, 1, 20)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": rows})
}

func (s *WebServer) handlePublicTestimonials(c echo.Context) error {
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	rows, total, err := s.appctx.Testimonials().List(c.Request().Context(), page, 20)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"code": 0, "data": rows, "totalCount": total})
}
