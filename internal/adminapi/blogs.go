package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/webserver"
)

func registerBlogRoutes() {
	webserver.ApiGET("/blogs", listBlogs)
	webserver.ApiGET("/blogs/:id", getBlog)
	webserver.ApiPOST("/blogs", createBlog)
	webserver.ApiPUT("/blogs/:id", updateBlog)
	webserver.ApiDELETE("/blogs/:id", deleteBlog)
}

func blogInput(c echo.Context) cms.BlogInput {
	return cms.BlogInput{
		Title:           strField(c, "title"),
		CreatedBy:       strField(c, "createdBy"),
		Date:            strField(c, "date"),
		Description:     strField(c, "description"),
		MoreDescription: strField(c, "moreDescription"),
		QuoteOfTheDay:   strField(c, "quoteOfTheDay"),
		SubTitle:        strField(c, "subTitle"),
		SubDescription:  strField(c, "subDescription"),
		Tags:            flexField(c, "tags"),
		ExtraPoints:     flexField(c, "extraPoints"),
		ExtraTitle:      strField(c, "extraTitle"),
		SeoTitle:        strField(c, "seoTitle"),
		SeoKeywords:     flexField(c, "seoKeywords"),
		SeoDescription:  strField(c, "seoDescription"),
	}
}

func listBlogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, total, err := appctx.Blogs().List(c.Request().Context(), page, pageSize)
	if err != nil {
		return respondErr(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

func getBlog(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid blog ID", nil)
	}
	b, err := appctx.Blogs().Get(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, b)
}

func createBlog(c echo.Context) error {
	uploads, err := stageUploads(c, "images")
	if err != nil {
		return fail(c, 400, "INVALID_REQUEST", "Unable to read uploaded images", err.Error())
	}
	b, err := appctx.Blogs().Create(c.Request().Context(), blogInput(c), uploads)
	if err != nil {
		discardUploads(uploads)
		return respondErr(c, err)
	}
	writeOprLog(c, "create_blog", b.Title)
	return ok(c, b)
}

func updateBlog(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid blog ID", nil)
	}
	uploads, err := stageUploads(c, "images")
	if err != nil {
		return fail(c, 400, "INVALID_REQUEST", "Unable to read uploaded images", err.Error())
	}
	appendImages := false
	if v := boolField(c, "appendImages"); v != nil {
		appendImages = *v
	}
	b, err := appctx.Blogs().Update(c.Request().Context(), id, blogInput(c), uploads, appendImages)
	if err != nil {
		discardUploads(uploads)
		return respondErr(c, err)
	}
	writeOprLog(c, "update_blog", b.Title)
	return ok(c, b)
}

func deleteBlog(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid blog ID", nil)
	}
	if err := appctx.Blogs().Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "delete_blog", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
