package routes

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/pedigree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/export"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

type exportFormat struct {
	extension   string
	contentType string
}

var exportFormats = map[string]exportFormat{
	"gedcom": {".ged", "text/plain; charset=utf-8"},
	"dot":    {".dot", "text/vnd.graphviz; charset=utf-8"},
	"qr":     {".png", "image/png"},
	"pdf":    {".pdf", "application/pdf"},
}

// ExportPedigreeHandler renders a pedigree as GEDCOM, DOT, QR code or PDF
// report. With store=true the document is uploaded to the bucket and a
// download link is returned instead of the document.
func ExportPedigreeHandler(c echo.Context) error {
	type exportBody struct {
		Pedigree  json.RawMessage `json:"pedigree" validate:"required"`
		Notes     string          `json:"notes"`
		IncludeQR bool            `json:"include_qr"`
		Size      int             `json:"size" validate:"omitempty,min=64,max=2048"`
		Pseudonym bool            `json:"pseudonymize"`
	}

	type storedExportResponse struct {
		Key string `json:"key"`
		URL string `json:"url,omitempty"`
	}

	format, ok := exportFormats[c.Param("format")]
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Unknown export format"})
	}

	data := new(exportBody)
	if err := c.Bind(data); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidBody(c)
	}

	p, err := pedigree.LoadPayload(string(data.Pedigree))
	if err != nil {
		return errorResponse(c, err)
	}
	if data.Pseudonym {
		p = pedigree.Pseudonymize(p)
	}

	app := middleware.GetApp(c)

	var content []byte
	switch c.Param("format") {
	case "gedcom":
		content = []byte(export.ToGEDCOM(p))
	case "dot":
		content = []byte(export.ToDOT(p))
	case "qr":
		size := data.Size
		if size == 0 {
			size = export.DefaultQRSize
		}
		content, err = export.ToQRCode(p, size)
	case "pdf":
		result := app.Analysis.Analyze(p)
		buf := new(bytes.Buffer)
		err = export.WritePDFReport(buf, export.ReportParams{
			Pedigree:  p,
			Result:    &result,
			Notes:     data.Notes,
			IncludeQR: data.IncludeQR,
		})
		content = buf.Bytes()
	}
	if err != nil {
		return errorResponse(c, err)
	}

	if c.QueryParam("store") != "true" {
		return c.Blob(http.StatusOK, format.contentType, content)
	}

	if app.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, messageResponse{Message: "Storage is not configured"})
	}

	ctx := c.Request().Context()
	key, err := app.Store.PutFile(ctx, "exports", "pedigree"+format.extension, bytes.NewReader(content))
	if err != nil {
		return errorResponse(c, err)
	}
	url, err := app.Store.DownloadLink(ctx, key)
	if err != nil {
		logger.Warn("Failed to generate download link", "key", key, "err", err)
	}
	return c.JSON(http.StatusCreated, storedExportResponse{Key: key, URL: url})
}
