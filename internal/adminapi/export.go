package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/craftbond/sitecms/internal/cms"
	"github.com/craftbond/sitecms/internal/domain"
	"github.com/craftbond/sitecms/internal/webserver"
)

func registerExportRoutes() {
	webserver.ApiGET("/products/export", exportProducts)
}

type productCsvRow struct {
	ID             int64  `csv:"id"`
	Title          string `csv:"title"`
	Slug           string `csv:"slug"`
	ChemicalBase   string `csv:"chemical_base"`
	Appearance     string `csv:"appearance"`
	ShelfLife      string `csv:"shelf_life"`
	CureTime       string `csv:"cure_time"`
	AvailablePacks string `csv:"available_packs"`
	Images         string `csv:"images"`
	IsActive       bool   `csv:"is_active"`
	CreatedAt      string `csv:"created_at"`
}

// exportProducts streams the full product catalog as a CSV attachment.
func exportProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var rows []productCsvRow
	page := 1
	for {
		batch, _, err := appctx.Products().List(ctx, cms.ProductFilter{}, page, 500)
		if err != nil {
			return respondErr(c, err)
		}
		for _, p := range batch {
			rows = append(rows, csvRow(p))
		}
		if len(batch) < 500 {
			break
		}
		page++
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build CSV export", err.Error())
	}

	writeOprLog(c, "export_products", fmt.Sprintf("%d rows", len(rows)))
	filename := fmt.Sprintf("products-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(out))
}

func csvRow(p domain.Product) productCsvRow {
	return productCsvRow{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		ChemicalBase:   p.ChemicalBase,
		Appearance:     p.Appearance,
		ShelfLife:      p.ShelfLife,
		CureTime:       p.CureTime,
		AvailablePacks: strings.Join(p.AvailablePacks, "|"),
		Images:         strings.Join(p.Images, "|"),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
