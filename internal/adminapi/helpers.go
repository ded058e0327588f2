package adminapi

import (
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/craftbond/sitecms/internal/app"
	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/internal/webserver"
	"github.com/craftbond/sitecms/pkg/common"
)

var appctx app.AppContext

// InitRouter registers the admin console routes. Call after webserver.Init.
func InitRouter(ctx app.AppContext) {
	appctx = ctx
	registerProductRoutes()
	registerBlogRoutes()
	registerBannerRoutes()
	registerTestimonialRoutes()
	registerExportRoutes()
	registerStatusRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"code": 0, "data": data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{"code": 1, "error": code, "msg": message}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":       0,
		"data":       rows,
		"totalCount": total,
		"page":       page,
		"perPage":    pageSize,
	})
}

// respondErr maps service errors onto HTTP statuses.
func respondErr(c echo.Context, err error) error {
	var verr *cms.ValidationError
	var serr *cms.StorageError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", verr.Message, verr.Field)
	case errors.Is(err, cms.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "record not found", nil)
	case errors.Is(err, cms.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.As(err, &serr):
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", serr.Error(), nil)
	default:
		zap.L().Error("admin api error", zap.Error(err), zap.String("path", c.Path()))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "internal error", nil)
	}
}

// parsePagination accepts page plus perPage (front-end) or pageSize (legacy).
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	raw := c.QueryParam("perPage")
	if raw == "" {
		raw = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(raw); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

// strField returns the form field as a pointer, nil when the field was not
// submitted at all. Services treat nil as "keep the stored value".
func strField(c echo.Context, name string) *string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	vs, present := params[name]
	if !present || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

func boolField(c echo.Context, name string) *bool {
	s := strField(c, name)
	if s == nil {
		return nil
	}
	v := cast.ToBool(strings.TrimSpace(*s))
	return &v
}

func intField(c echo.Context, name string) *int {
	s := strField(c, name)
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &v
}

// flexField collects a list-valued form field that clients submit either as
// repeated values, a JSON array, or a comma separated string.
func flexField(c echo.Context, name string) *domain.FlexStrings {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	vs, present := params[name]
	if !present {
		// some clients submit list fields with an [] suffix
		vs, present = params[name+"[]"]
	}
	if !present {
		return nil
	}
	f := domain.FlexFromForm(vs)
	return &f
}

// stageUploads copies the multipart files of the named field into temp files
// so the asset store can move them into place. Returns nil when the request
// carries no files for the field.
func stageUploads(c echo.Context, field string) ([]assets.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}
		return nil, err
	}
	headers := form.File[field]
	if len(headers) == 0 {
		headers = form.File[field+"[]"]
	}

	var uploads []assets.Upload
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return uploads, err
		}
		tmp, err := os.CreateTemp("", "sitecms-upload-*")
		if err != nil {
			_ = src.Close()
			return uploads, err
		}
		_, err = io.Copy(tmp, src)
		_ = src.Close()
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
			return uploads, err
		}
		uploads = append(uploads, assets.Upload{
			TempPath:     tmp.Name(),
			OriginalName: fh.Filename,
			Field:        field,
		})
	}
	return uploads, nil
}

// discardUploads removes staged temp files after a request that never reached
// the asset store.
func discardUploads(uploads []assets.Upload) {
	for _, u := range uploads {
		_ = os.Remove(u.TempPath)
	}
}

// writeOprLog records an admin action in the operator audit trail.
func writeOprLog(c echo.Context, action, desc string) {
	username := webserver.SessionUsername(c)
	if username == "" {
		username = "api"
	}
	logEntry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   username,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := GetDB(c).Create(&logEntry).Error; err != nil {
		zap.L().Warn("operator log write failed", zap.Error(err))
	}
}
