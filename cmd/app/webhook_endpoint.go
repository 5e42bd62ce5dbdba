package main

import (
	"errors"
	"io"
	"net/http"

	"CloudusAPI/internal/model"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

// Webhook routes are public by necessity; authenticity comes from the
// per-provider signature/hash verification, never from a session.
func registerWebhookRoutes(g *echo.Group, ss *services.SettlementService) {
	w := g.Group("/payments/webhooks")

	w.POST("/stripe", webhookHandler(ss, model.ProviderStripe, "Stripe-Signature"))
	w.POST("/paystack", webhookHandler(ss, model.ProviderPaystack, "x-paystack-signature"))
	// Ozow carries its hash inside the body, not a header.
	w.POST("/ozow", webhookHandler(ss, model.ProviderOzow, ""))
}

func webhookHandler(
	ss *services.SettlementService,
	provider model.PaymentProvider,
	signatureHeader string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "unreadable body",
			})
		}

		var signature string
		if signatureHeader != "" {
			signature = c.Request().Header.Get(signatureHeader)
		}

		err = ss.HandleEvent(c.Request().Context(), provider, body, signature)
		switch {
		case err == nil:
			return c.JSON(http.StatusOK, echo.Map{
				"received": true,
			})
		case errors.Is(err, services.ErrBadSignature):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "verification failed",
			})
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "unknown payment reference",
			})
		case errors.Is(err, services.ErrProviderNotConfigured):
			return c.JSON(http.StatusNotImplemented, echo.Map{
				"error": "provider not configured",
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "internal error",
			})
		}
	}
}
