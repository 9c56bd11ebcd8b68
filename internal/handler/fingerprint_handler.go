package handler

import (
	"project-ledger-be/internal/pkg/logger"
	internalWS "project-ledger-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FingerprintSource reports the fingerprint currently shown for the ledger.
type FingerprintSource interface {
	Fingerprint() (string, uint64)
}

type FingerprintHandler struct {
	source FingerprintSource
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewFingerprintHandler(source FingerprintSource, hub *internalWS.Hub, log logger.ILogger) *FingerprintHandler {
	return &FingerprintHandler{
		source: source,
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the request and greets the client with the current
// fingerprint so it never has to wait for the next save to show one.
func (h *FingerprintHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		fingerprint, seq := h.source.Fingerprint()
		greeting := internalWS.Message{
			Type: internalWS.MessageTypeFingerprint,
			Data: internalWS.FingerprintPayload{Fingerprint: fingerprint, Seq: seq},
		}

		h.logger.Info("FingerprintHandler", "Starting WebSocket session", map[string]interface{}{"seq": seq})
		internalWS.ServeWs(h.hub, conn, &greeting)
		h.logger.Info("FingerprintHandler", "WebSocket session ended", nil)
	})(c)
}

func (h *FingerprintHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ledger/v1/ws", h.ServeWs)
}
