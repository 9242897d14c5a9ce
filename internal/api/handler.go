package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/insightdelivered/stat-report-converter/internal/app"
	"github.com/insightdelivered/stat-report-converter/internal/config"
	"github.com/insightdelivered/stat-report-converter/internal/extractor"
	"github.com/insightdelivered/stat-report-converter/internal/models"
	"github.com/insightdelivered/stat-report-converter/internal/parser"
	"github.com/insightdelivered/stat-report-converter/internal/pipeline"
	"github.com/insightdelivered/stat-report-converter/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success    bool               `json:"success"`
	RunID      string             `json:"runId"`
	Dialect    string             `json:"dialect"`
	Components []ComponentSummary `json:"components"`
	CSV        string             `json:"csv"`
	Count      int                `json:"count"`
	DebugLines []models.DebugLine `json:"debugLines,omitempty"`
}

// ComponentSummary is one component of the parsed report.
type ComponentSummary struct {
	Name    string              `json:"name"`
	Groups  []models.ValueGroup `json:"groups"`
	Records int                 `json:"records"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler holds the HTTP handlers for the API. Form fields of a request
// override the configured defaults.
type Handler struct {
	Keys      []string
	Dialect   string
	Secondary string
	Logger    *slog.Logger
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	api := r.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/convert", h.HandleConvert)
}

// HandleHealth reports liveness and the build version.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": app.Version,
	})
}

// errInput marks a request without usable report input.
var errInput = errors.New("no input: upload form field 'file' or send form field 'text'")

// HandleConvert parses an uploaded report and returns its components along
// with the ';' serialization.
func (h *Handler) HandleConvert(c *fiber.Ctx) (err error) {
	runID := uuid.NewString()
	log := h.logger().With(slog.String("run_id", runID))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("convert panicked", slog.Any("panic", rec))
			err = writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("internal server error: %v", rec))
		}
	}()

	source, lines, err := readInput(c)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, extractor.ErrExtract) {
			status = fiber.StatusUnprocessableEntity
		}
		log.Warn("convert rejected", slog.Any("error", err))
		return writeError(c, status, err.Error())
	}

	dialect, err := parser.ParseDialect(c.FormValue("dialect", h.Dialect))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	keys := h.Keys
	if raw := c.FormValue("keys"); raw != "" {
		keys = config.ParseKeyList(raw)
	}

	conv := &pipeline.Converter{
		Dialect: dialect,
		Keys:    keys,
		Trace:   formBool(c, "trace"),
		Logger:  log,
	}
	report, err := conv.ConvertLines(source, lines)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	csvWriter, err := writer.ForSecondary(c.FormValue("secondary", h.Secondary), report.Dialect)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	csv := csvWriter.Render(report.Store)

	if formBool(c, "download") {
		c.Attachment(downloadName(source))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.SendString(csv)
	}

	components := make([]ComponentSummary, 0, report.Store.Len())
	for i := range report.Store.Components {
		comp := &report.Store.Components[i]
		groups := comp.Groups
		if groups == nil {
			groups = []models.ValueGroup{}
		}
		components = append(components, ComponentSummary{
			Name:    comp.Name,
			Groups:  groups,
			Records: comp.Records(),
		})
	}

	return c.JSON(ConvertResponse{
		Success:    true,
		RunID:      runID,
		Dialect:    string(report.Dialect),
		Components: components,
		CSV:        csv,
		Count:      report.Store.Records(),
		DebugLines: report.DebugLines,
	})
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// readInput returns the report lines from the uploaded file, or from the
// "text" form field when no file was sent.
func readInput(c *fiber.Ctx) (string, []string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		text := c.FormValue("text")
		if strings.TrimSpace(text) == "" {
			return "", nil, errInput
		}
		return "text", extractor.SplitLines(text), nil
	}

	if strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		lines, err := readPDF(fh)
		return fh.Filename, lines, err
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return fh.Filename, extractor.SplitLines(string(data)), nil
}

// readPDF stores the upload in a temp file for the PDF extractor.
func readPDF(fh *multipart.FileHeader) ([]string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "report-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return extractor.ReadLines(tmp.Name())
}

func formBool(c *fiber.Ctx, key string) bool {
	v, err := strconv.ParseBool(c.FormValue(key))
	return err == nil && v
}

func downloadName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: msg})
}
