package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/webserver"
)

func registerTestimonialRoutes() {
	webserver.ApiGET("/testimonials", listTestimonials)
	webserver.ApiGET("/testimonials/:id", getTestimonial)
	webserver.ApiPOST("/testimonials", createTestimonial)
	webserver.ApiPUT("/testimonials/:id", updateTestimonial)
	webserver.ApiDELETE("/testimonials/:id", deleteTestimonial)
}

func testimonialInput(c echo.Context) cms.TestimonialInput {
	return cms.TestimonialInput{
		Title:       strField(c, "title"),
		Rating:      intField(c, "rating"),
		Content:     strField(c, "content"),
		Name:        strField(c, "name"),
		Designation: strField(c, "designation"),
	}
}

func listTestimonials(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, total, err := appctx.Testimonials().List(c.Request().Context(), page, pageSize)
	if err != nil {
		return respondErr(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

func getTestimonial(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	t, err := appctx.Testimonials().Get(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, t)
}

func createTestimonial(c echo.Context) error {
	t, err := appctx.Testimonials().Create(c.Request().Context(), testimonialInput(c))
	if err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "create_testimonial", t.Title)
	return ok(c, t)
}

func updateTestimonial(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	t, err := appctx.Testimonials().Update(c.Request().Context(), id, testimonialInput(c))
	if err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "update_testimonial", t.Title)
	return ok(c, t)
}

func deleteTestimonial(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, 400, "INVALID_ID", "Invalid testimonial ID", nil)
	}
	if err := appctx.Testimonials().Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	writeOprLog(c, "delete_testimonial", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
