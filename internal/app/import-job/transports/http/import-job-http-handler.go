package import_job_http_handler

import (
	"io"
	"strconv"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/domain/dtos"
	"github.com/nebula-marketing/lead-importer/internal/config"
	http_transport "github.com/nebula-marketing/lead-importer/internal/transports/http"

	"github.com/gofiber/fiber/v3"
)

type ImportJobHttpHandler struct {
	service      app.ImportJobService
	defaultUseAI bool
}

func New(service app.ImportJobService, cfg *config.Config) *ImportJobHttpHandler {
	return &ImportJobHttpHandler{service, cfg.Importer.UseAI}
}

func (this *ImportJobHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/lead-imports/jobs")

	app.Post("/", this.enqueue)
	app.Get("/:id", this.getRun)
}

// enqueue godoc
//
//	@Summary	Queue a spreadsheet for background import
//	@Tags		lead-imports
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"XLSX or CSV file"
//	@Param		use_ai	formData	bool	false	"Ask the AI classifier about unmapped columns"
//	@Param		owner	formData	string	false	"Who requested the import"
//	@Success	202		{object}	dtos.EnqueueImportJobResponse
//	@Failure	400		{object}	dtos.ErrorResponse
//	@Router		/lead-imports/jobs [post]
func (this *ImportJobHttpHandler) enqueue(c fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}

	req := dtos.EnqueueImportJobRequest{
		Filename: header.Filename,
		UseAI:    this.defaultUseAI,
		Owner:    c.FormValue("owner"),
	}
	if raw := c.FormValue("use_ai"); raw != "" {
		req.UseAI, err = strconv.ParseBool(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "use_ai must be a boolean")
		}
	}
	if err := http_transport.Validate(req); err != nil {
		return err
	}

	f, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}

	job, err := this.service.Enqueue(c.Context(), data, req.Filename, req.UseAI, req.Owner)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(dtos.EnqueueImportJobResponse{
		JobID:    job.ID,
		Status:   app.ImportJobQueued,
		Filename: job.Filename,
	})
}

// getRun godoc
//
//	@Summary	Status of a background import
//	@Tags		lead-imports
//	@Produce	json
//	@Param		id	path		string	true	"Job id"
//	@Success	200	{object}	dtos.ImportRunResponse
//	@Failure	404	{object}	dtos.ErrorResponse
//	@Router		/lead-imports/jobs/{id} [get]
func (this *ImportJobHttpHandler) getRun(c fiber.Ctx) error {
	run, err := this.service.GetRun(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	resp := dtos.ImportRunResponse{
		JobID:          run.ID,
		Filename:       run.Filename,
		Owner:          run.Owner,
		Status:         run.Status,
		Stats:          run.Stats,
		ColumnMappings: run.Mapping,
		Error:          run.Error,
		StartedAt:      run.StartedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return c.JSON(resp)
}
