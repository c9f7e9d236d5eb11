package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat_backend/monitor"
)

type AdminHandler struct {
	monitor *monitor.Monitor
}

func NewAdminHandler(m *monitor.Monitor) *AdminHandler {
	return &AdminHandler{monitor: m}
}

// MonitorStatus reports the tracked sessions, mainly for operators
// checking whether ingestion is stuck.
func (h *AdminHandler) MonitorStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"in_flight": h.monitor.InFlight(),
		"sessions":  h.monitor.Sessions(),
	})
}
