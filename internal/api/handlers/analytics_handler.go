package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/postdeck/postdeck/internal/service"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

// GetUserAnalytics answers the dashboard's aggregate query. The window
// defaults to the last 30 days.
func (h *AnalyticsHandler) GetUserAnalytics(c *fiber.Ctx) error {
	userID := GetUserID(c)

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)

	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start_date must be RFC 3339",
			})
		}
		startDate = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "end_date must be RFC 3339",
			})
		}
		endDate = parsed
	}

	summary, err := h.s.UserSummary(c.Context(), userID, startDate, endDate)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}

func (h *AnalyticsHandler) GetPostAnalytics(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	summary, err := h.s.PostSummary(c.Context(), userID, int64(postID))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
