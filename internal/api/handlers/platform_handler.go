package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/postdeck/postdeck/configs"
	"github.com/postdeck/postdeck/internal/platforms"
	"github.com/postdeck/postdeck/internal/service"
)

// stateCookie is the single-slot handoff between the connect redirect
// and the callback: one pending OAuth attempt per session at a time.
const stateCookie = "oauth_state"

type PlatformHandler struct {
	ps  service.PlatformService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		cfg: cfg,
	}
}

func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(platforms.All())
}

// Connect stores the CSRF state in the one-shot cookie and sends the
// browser to the platform's authorization page. Execution resumes in
// Callback after the round trip.
func (h *PlatformHandler) Connect(c *fiber.Ctx) error {
	authURL, state, err := h.ps.Connect(c.Context(), c.Params("platform"))
	if err != nil {
		return errorJSON(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(authURL)
}

func (h *PlatformHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	platform := c.Params("platform")
	userID := GetUserID(c)

	// Consume the state cookie before the outcome is known so a stored
	// value can never be replayed.
	storedState := c.Cookies(stateCookie)
	c.Cookie(&fiber.Cookie{
		Name:    stateCookie,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Now().Add(-time.Hour),
	})

	if err := h.ps.HandleCallback(c.Context(), userID, platform, code, state, storedState); err != nil {
		log.Printf("platform callback failed: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to connect: %s", err.Error()),
		})
	}

	redirectURL := fmt.Sprintf("%s/settings", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.ps.List(c.Context(), userID)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch social accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *PlatformHandler) DeleteSocialAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	err := h.ps.Disconnect(c.Context(), userID, int64(accountID))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
