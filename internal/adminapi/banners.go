package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/craftbond/sitecms/internal/assets"
	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/webserver"
)

func registerBannerRoutes() {
	webserver.ApiGET("/banners", listBanners)
	webserver.ApiGET("/banners/:id", getBanner)
	webserver.ApiPOST("/banners", createBanner)
	webserver.ApiPUT("/banners/:id", updateBanner)
	webserver.ApiPATCH("/banners/toggle/:id", toggleBanner)
	webserver.ApiDELETE("/banners/:id", deleteBanner)
}

func bannerInput(c echo.Context) cms.BannerInput {
	return cms.BannerInput{
		Title:       strField(c, "title"),
		Subtitle:    strField(c, "subtitle"),
		Description: strField(c, "description"),
		Link:        strField(c, "link"),
		IsActive:    boolField(c, "isActive"),
	}
}

// bannerUpload stages the single banner image, nil when none was sent.
func bannerUpload(c echo.Context) (*assets.Upload, error) {
	uploads, err := stageUploads(c, "image")
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, nil
	}
	// extra files are ignored, a banner has exactly one image
	discardUploads(uploads[1:])
	return &uploads[0], nil
}

func listBanners(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := cms.BannerFilter{IsActive: boolField(c, "isActive")}
	rows, total, err := appctx.Banners().List(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return respondErr(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

func getBanner(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid banner ID", nil)
	}
	b, err := appctx.Banners().Get(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, b)
}

func createBanner(c echo.Context) error {
	upload, err := bannerUpload(c)
	if err != nil {
		return fail(c, 400, "INVALID_REQUEST", "Unable to read uploaded image", err.Error())
	}
	b, err := appctx.Banners().Create(c.Request().Context(), bannerInput(c), upload)
	if err != nil {
		if upload != nil {
			discardUploads([]assets.Upload{*upload})
		}
		return respondErr(c, err)
	}
	writeOprLog(c, "create_banner", b.Title)
	return ok(c, b)
}

func updateBanner(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid banner ID", nil)
	}
	upload, err := bannerUpload(c)
	if err != nil {
		return fail(c, 400, "INVALID_REQUEST", "Unable to read uploaded image", err.Error())
	}
	b, err := appctx.Banners().Update(c.Request().Context(), id, bannerInput(c), upload)
	if err != nil {
		if upload != nil {
			discardUploads([]assets.Upload{*upload})
		}
		return respondErr(c, err)
	}
	writeOprLog(c, "update_banner", b.Title)
	return ok(c, b)
}

func toggleBanner(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid banner ID", nil)
	}
	b, err := appctx.Banners().ToggleActive(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "toggle_banner", b.Title)
	return ok(c, b)
}

func deleteBanner(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid banner ID", nil)
	}
	if err := appctx.Banners().Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "delete_banner", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
