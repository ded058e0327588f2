package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/craftbond/sitecms/config"
	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/pkg/common"
)

type testAppCtx struct {
	cfg   *config.AppConfig
	db    *gorm.DB
	bus   EventBus.Bus
	store *assets.Store

	products     *cms.ProductService
	blogs        *cms.BlogService
	banners      *cms.BannerService
	testimonials *cms.TestimonialService
}

func (a *testAppCtx) DB() *gorm.DB                          { return a.db }
func (a *testAppCtx) Config() *config.AppConfig             { return a.cfg }
func (a *testAppCtx) Bus() EventBus.Bus                     { return a.bus }
func (a *testAppCtx) Assets() *assets.Store                 { return a.store }
func (a *testAppCtx) Products() *cms.ProductService         { return a.products }
func (a *testAppCtx) Blogs() *cms.BlogService               { return a.blogs }
func (a *testAppCtx) Banners() *cms.BannerService           { return a.banners }
func (a *testAppCtx) Testimonials() *cms.TestimonialService { return a.testimonials }
func (a *testAppCtx) MigrateDB(track bool) error            { return nil }
func (a *testAppCtx) InitDb()                               {}
func (a *testAppCtx) DropAll()                              {}

func newTestAppCtx(t *testing.T) *testAppCtx {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	store, err := assets.NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	bus := EventBus.New()
	cfg := new(config.AppConfig)
	*cfg = *config.DefaultAppConfig
	cfg.Web.Secret = "test-secret"
	cfg.Web.SiteURL = "http://example.test"

	return &testAppCtx{
		cfg:          cfg,
		db:           db,
		bus:          bus,
		store:        store,
		products:     cms.NewProductService(cms.NewGormProductRepository(db), store, bus),
		blogs:        cms.NewBlogService(cms.NewGormBlogRepository(db), store, bus),
		banners:      cms.NewBannerService(cms.NewGormBannerRepository(db), store, bus),
		testimonials: cms.NewTestimonialService(cms.NewGormTestimonialRepository(db), bus),
	}
}

func newTestServer(t *testing.T) (*WebServer, *testAppCtx) {
	t.Helper()
	appctx := newTestAppCtx(t)
	s := Init(appctx, NewAuthPolicy(appctx.cfg, appctx.db))
	return s, appctx
}

func createOperator(t *testing.T, db *gorm.DB, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: username,
		Password: string(hash),
		Status:   common.ENABLED,
	}).Error)
}

func stageUpload(t *testing.T, name string) assets.Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged-"+name)
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o644))
	return assets.Upload{TempPath: path, OriginalName: name, Field: "images"}
}

func strp(s string) *string { return &s }

func createProduct(t *testing.T, appctx *testAppCtx, title string) *domain.Product {
	t.Helper()
	packs := domain.FlexFromForm([]string{"250ml"})
	p, err := appctx.products.Create(context.Background(), cms.ProductInput{
		Title:          strp(title),
		Description:    strp("a strong adhesive"),
		AvailablePacks: &packs,
	}, []assets.Upload{stageUpload(t, "main.png")})
	require.NoError(t, err)
	return p
}

func TestStaticCredentialPolicy(t *testing.T) {
	appctx := newTestAppCtx(t)
	createOperator(t, appctx.db, "admin", "secret123")

	policy := NewAuthPolicy(appctx.cfg, appctx.db)
	require.Equal(t, "static", policy.Name())

	require.NoError(t, policy.Authenticate(context.Background(), "admin", "secret123"))
	require.Error(t, policy.Authenticate(context.Background(), "admin", "wrong"))
	require.Error(t, policy.Authenticate(context.Background(), "nobody", "secret123"))

	var opr domain.SysOpr
	require.NoError(t, appctx.db.Where("username = ?", "admin").First(&opr).Error)
	require.WithinDuration(t, time.Now(), opr.LastLogin, time.Minute)
}

func TestStaticCredentialPolicyRejectsDisabled(t *testing.T) {
	appctx := newTestAppCtx(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, appctx.db.Create(&domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: "locked",
		Password: string(hash),
		Status:   common.DISABLED,
	}).Error)

	policy := NewAuthPolicy(appctx.cfg, appctx.db)
	require.Error(t, policy.Authenticate(context.Background(), "locked", "secret123"))
}

func TestLoginGatesAdminRoutes(t *testing.T) {
	s, appctx := newTestServer(t)
	createOperator(t, appctx.db, "admin", "secret123")

	ApiGET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"code": 0})
	})

	// no credentials
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)

	// wrong password
	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// login
	form = url.Values{"username": {"admin"}, "password": {"secret123"}}
	req = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "token")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// session cookie grants access
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerTokenVerifiesWithGeneratedSecret(t *testing.T) {
	appctx := newTestAppCtx(t)
	appctx.cfg.Web.Secret = ""
	s := Init(appctx, NewAuthPolicy(appctx.cfg, appctx.db))
	createOperator(t, appctx.db, "admin", "secret123")

	ApiGET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"code": 0})
	})

	form := url.Values{"username": {"admin"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	// the token must verify against the same secret the middleware uses
	req = httptest.NewRequest(http.MethodGet, "/api/admin/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+body.Data.Token)
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicProductBySlugHidesInactive(t *testing.T) {
	s, appctx := newTestServer(t)
	p := createProduct(t, appctx, "Hidden Glue")
	_, err := appctx.products.ToggleActive(context.Background(), p.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/products/hidden-glue", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicProductBySlug(t *testing.T) {
	s, appctx := newTestServer(t)
	createProduct(t, appctx, "Super Glue")

	req := httptest.NewRequest(http.MethodGet, "/api/products/super-glue", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Super Glue")
}

func TestHomeAggregate(t *testing.T) {
	s, appctx := newTestServer(t)
	createProduct(t, appctx, "Glue One")
	createProduct(t, appctx, "Glue Two")

	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "products")
	require.Contains(t, body, "banners")
	require.Contains(t, body, "blogs")
	require.Contains(t, body, "testimonials")
	require.Contains(t, body, "Glue One")
}

func TestSitemapIncludesProducts(t *testing.T) {
	s, appctx := newTestServer(t)
	createProduct(t, appctx, "Epoxy Bond")

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "http://example.test/productDetails/epoxy-bond")
	require.Contains(t, rec.Body.String(), "sitemaps.org")
}

func TestFeedCacheInvalidation(t *testing.T) {
	s, appctx := newTestServer(t)
	createProduct(t, appctx, "First Glue")

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Contains(t, rec.Body.String(), "first-glue")
	require.NotContains(t, rec.Body.String(), "second-glue")

	// a content change purges the cached body
	createProduct(t, appctx, "Second Glue")

	req = httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Contains(t, rec.Body.String(), "second-glue")
}

func TestRSSFeed(t *testing.T) {
	s, appctx := newTestServer(t)
	_, err := appctx.blogs.Create(context.Background(), cms.BlogInput{
		Title:       strp("Bonding Basics"),
		Description: strp("how adhesives work"),
	}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/rss.xml", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<rss")
	require.Contains(t, rec.Body.String(), "Bonding Basics")
	require.Contains(t, rec.Body.String(), "blogDetails/bonding-basics")
}

func TestContactRequiresFields(t *testing.T) {
	s, _ := newTestServer(t)

	form := url.Values{"name": {"Jo"}}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactUnconfiguredSmtp(t *testing.T) {
	s, _ := newTestServer(t)

	form := url.Values{
		"name":    {"Jo"},
		"email":   {"jo@example.com"},
		"message": {"hello"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
