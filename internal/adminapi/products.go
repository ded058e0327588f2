package adminapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/webserver"
)

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/products/slug/:slug", getProductBySlug)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiPATCH("/products/toggle/:id", toggleProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func productInput(c echo.Context) cms.ProductInput {
	return cms.ProductInput{
		Title:               strField(c, "title"),
		Description:         strField(c, "description"),
		SubDescription:      strField(c, "subDescription"),
		ChemicalBase:        strField(c, "chemicalBase"),
		Appearance:          strField(c, "appearance"),
		ShelfLife:           strField(c, "shelfLife"),
		CureTime:            strField(c, "cureTime"),
		ApplicationTips:     strField(c, "applicationTips"),
		AvailablePacks:      flexField(c, "availablePacks"),
		KeyFeatures:         flexField(c, "keyFeatures"),
		SeoTitle:            strField(c, "seoTitle"),
		SeoKeywords:         flexField(c, "seoKeywords"),
		SeoDescription:      strField(c, "seoDescription"),
		QuestionsAndAnswers: strField(c, "questionsAndAnswers"),
		IsActive:            boolField(c, "isActive"),
	}
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := cms.ProductFilter{
		Search:   strings.TrimSpace(c.QueryParam("q")),
		IsActive: boolField(c, "isActive"),
	}
	rows, total, err := appctx.Products().List(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return respondErr(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := appctx.Products().Get(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, p)
}

func getProductBySlug(c echo.Context) error {
	p, err := appctx.Products().GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	uploads, err := stageUploads(c, "images")
	if err != nil {
		return fail(c, 400, "INVALID_REQUEST", "Unable to read uploaded images", err.Error())
	}
	p, err := appctx.Products().Create(c.Request().Context(), productInput(c), uploads)
	if err != nil {
		discardUploads(uploads)
		return respondErr(c, err)
	}
	writeOprLog(c, "create_product", p.Title)
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid product ID", nil)
	}
	uploads, err := stageUploads(c, "images")
	if err != nil {
		return fail(c, 400, "INVALID_REQUEST", "Unable to read uploaded images", err.Error())
	}
	appendImages := false
	if v := boolField(c, "appendImages"); v != nil {
		appendImages = *v
	}
	p, err := appctx.Products().Update(c.Request().Context(), id, productInput(c), uploads, appendImages)
	if err != nil {
		discardUploads(uploads)
		return respondErr(c, err)
	}
	writeOprLog(c, "update_product", p.Title)
	return ok(c, p)
}

func toggleProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := appctx.Products().ToggleActive(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "toggle_product", p.Title)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := appctx.Products().Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "delete_product", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
