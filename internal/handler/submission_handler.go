package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/service"
	"github.com/gradeflow/gradeflow-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	actor := actorFromContext(c)

	if actor.Role == middleware.RoleProfessor {
		submissions, err := h.service.ListAll(c.Context())
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.OK(c, submissions, "submissions retrieved", nil)
	}

	submissions, err := h.service.ListForStudent(c.Context(), actor.ID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, submissions, "submissions retrieved", nil)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.Role != middleware.RoleStudent {
		return utils.Fail(c, fiber.StatusForbidden, "only students may submit assignments", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "submission file is required", nil)
	}

	submission, err := h.service.Submit(c.Context(), actor.ID, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.Created(c, submission, "submission uploaded")
}

func (h *SubmissionHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid submission id", nil)
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, nil, "submission deleted", nil)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "submission not found", nil)
	case errors.Is(err, service.ErrNotOwner):
		return utils.Fail(c, fiber.StatusForbidden, "submission belongs to another student", nil)
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.Fail(c, fiber.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.Fail(c, fiber.StatusUnsupportedMediaType, err.Error(), nil)
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Msg("submission request failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error", nil)
	}
}
