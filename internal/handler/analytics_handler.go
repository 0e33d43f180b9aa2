package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flashmind-analytics-api/internal/dto"
	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
	"github.com/noah-isme/flashmind-analytics-api/internal/service"
	"github.com/noah-isme/flashmind-analytics-api/internal/utils"
)

// AnalyticsHandler exposes the professor dashboard and per-quiz views.
type AnalyticsHandler struct {
	dashboard service.DashboardService
	quizzes   service.QuizAnalyticsService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(dashboard service.DashboardService, quizzes service.QuizAnalyticsService, validate *validator.Validate, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboard: dashboard,
		quizzes:   quizzes,
		validator: validate,
		logger:    logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches the analytics routes.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/quizzes/:id/report", h.getReport)
	router.Get("/quizzes/:id", h.getDetail)
}

func (h *AnalyticsHandler) getDashboard(c *fiber.Ctx) error {
	var query dto.DashboardQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid query parameters", validationDetails(err))
	}

	dashboard, err := h.dashboard.GetDashboard(c.UserContext(), query.Limit)
	if err != nil {
		return h.sourceError(c, err, "", "quizzes not found", "failed to load dashboard")
	}

	return utils.OK(c, dashboard, "dashboard computed", fiber.Map{
		"failedQuizzes": dashboard.FailedQuizzes,
		"partial":       len(dashboard.FailedQuizzes) > 0,
	})
}

func (h *AnalyticsHandler) getReport(c *fiber.Ctx) error {
	quizID, ok := h.quizID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	report, err := h.quizzes.GetReport(c.UserContext(), quizID)
	if err != nil {
		return h.sourceError(c, err, quizID, "quiz report not found", "failed to load quiz report")
	}

	return utils.SendSuccess(c, "quiz report computed", report)
}

func (h *AnalyticsHandler) getDetail(c *fiber.Ctx) error {
	quizID, ok := h.quizID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quiz id")
	}

	detail, err := h.quizzes.GetDetail(c.UserContext(), quizID)
	if err != nil {
		return h.sourceError(c, err, quizID, "quiz not found", "failed to load quiz")
	}

	return utils.OK(c, detail, "quiz retrieved", fiber.Map{"participantsPartial": detail.ParticipantsPartial})
}

func (h *AnalyticsHandler) quizID(c *fiber.Ctx) (string, bool) {
	param := dto.QuizIDParam{ID: c.Params("id")}
	if err := h.validator.Struct(param); err != nil {
		return "", false
	}
	return param.ID, true
}

func (h *AnalyticsHandler) sourceError(c *fiber.Ctx, err error, quizID, notFound, fallback string) error {
	switch {
	case errors.Is(err, quizsource.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, quizsource.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	event := requestLogger(h.logger, c).Error().Err(err)
	if quizID != "" {
		event = event.Str("quiz_id", quizID)
	}
	event.Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
