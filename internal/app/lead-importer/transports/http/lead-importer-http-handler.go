package lead_importer_http_handler

import (
	"io"
	"strconv"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	"github.com/gofiber/fiber/v3"
)

type LeadImporterHttpHandler struct {
	service      app.LeadImporterService
	defaultUseAI bool
}

func New(service app.LeadImporterService, cfg *config.Config) *LeadImporterHttpHandler {
	return &LeadImporterHttpHandler{service, cfg.Importer.UseAI}
}

func (this *LeadImporterHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/lead-imports")

	app.Post("/", this.importLeads)
	app.Post("/preview", this.previewImport)
}

// importLeads godoc
//
//	@Summary	Import leads from a spreadsheet
//	@Tags		lead-imports
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"XLSX or CSV file"
//	@Param		use_ai	formData	bool	false	"Ask the AI classifier about unmapped columns"
//	@Success	200		{object}	dtos.ImportLeadsResponse
//	@Failure	400		{object}	dtos.ErrorResponse
//	@Failure	422		{object}	dtos.ErrorResponse
//	@Router		/lead-imports [post]
func (this *LeadImporterHttpHandler) importLeads(c fiber.Ctx) error {
	file, filename, err := readUpload(c)
	if err != nil {
		return err
	}

	useAI := this.defaultUseAI
	if raw := c.FormValue("use_ai"); raw != "" {
		useAI, err = strconv.ParseBool(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "use_ai must be a boolean")
		}
	}

	res, err := this.service.ImportLeads(c.Context(), file, filename, app.ImportOptions{UseAI: useAI})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// previewImport godoc
//
//	@Summary	Preview the first leads of a spreadsheet import
//	@Tags		lead-imports
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"XLSX or CSV file"
//	@Success	200		{object}	dtos.PreviewImportResponse
//	@Failure	400		{object}	dtos.ErrorResponse
//	@Failure	422		{object}	dtos.ErrorResponse
//	@Router		/lead-imports/preview [post]
func (this *LeadImporterHttpHandler) previewImport(c fiber.Ctx) error {
	file, filename, err := readUpload(c)
	if err != nil {
		return err
	}

	res, err := this.service.PreviewImport(c.Context(), file, filename)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func readUpload(c fiber.Ctx) ([]byte, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}

	f, err := header.Open()
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	return data, header.Filename, nil
}
