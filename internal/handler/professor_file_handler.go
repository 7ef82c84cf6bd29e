package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/internal/utils"
)

// ProfessorFileHandler manages rubric and model-answer file endpoints.
type ProfessorFileHandler struct {
	service service.ProfessorFileService
	logger  zerolog.Logger
}

// NewProfessorFileHandler builds a professor file handler instance.
func NewProfessorFileHandler(service service.ProfessorFileService, logger zerolog.Logger) *ProfessorFileHandler {
	return &ProfessorFileHandler{
		service: service,
		logger:  logger.With().Str("component", "professor_file_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProfessorFileHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *ProfessorFileHandler) list(c *fiber.Ctx) error {
	filter := dto.ProfessorFileFilter{}
	if kind := c.Query("kind"); kind != "" {
		filter.Kind = &kind
	}

	files, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, files, "professor files retrieved", nil)
}

func (h *ProfessorFileHandler) create(c *fiber.Ctx) error {
	payload := dto.ProfessorFileUploadRequest{Kind: c.FormValue("kind")}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "upload file is required", nil)
	}

	response, err := h.service.Upload(c.Context(), userIDFromContext(c), payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.Created(c, response, "file uploaded")
}

func (h *ProfessorFileHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid file id", nil)
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, nil, "file deleted", nil)
}

func (h *ProfessorFileHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProfessorFileNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "file not found", nil)
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.Fail(c, fiber.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.Fail(c, fiber.StatusUnsupportedMediaType, err.Error(), nil)
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Msg("professor file request failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error", nil)
	}
}
