package main

import (
	"errors"
	"net/http"
	"strings"

	"CloudusAPI/internal/middleware"
	"CloudusAPI/internal/model"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

// entityTypeFromPath maps URL segments to entity types.
var entityTypeFromPath = map[string]model.EntityType{
	"orders":           model.EntityOrder,
	"bookings":         model.EntityBooking,
	"project-payments": model.EntityProject,
}

type checkoutRequest struct {
	EntityID   int64  `json:"entityId"`
	SuccessURL string `json:"successUrl,omitempty"`
	CancelURL  string `json:"cancelUrl,omitempty"`
}

func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService) {
	p := g.Group("/payments/checkout")
	p.Use(middleware.JWTMiddleware())

	p.POST("/:entityType/:provider", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "unauthenticated",
			})
		}

		entityType, ok := entityTypeFromPath[c.Param("entityType")]
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "unknown entity type",
			})
		}

		provider, ok := model.ParseProvider(strings.ToUpper(c.Param("provider")))
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "unknown provider",
			})
		}

		req := new(checkoutRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}
		if req.EntityID <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "entityId is required",
			})
		}

		result, err := cs.InitiateCheckout(
			c.Request().Context(),
			entityType,
			provider,
			req.EntityID,
			req.SuccessURL,
			req.CancelURL,
		)
		if err != nil {
			return checkoutErrorResponse(c, err)
		}

		return c.JSON(http.StatusCreated, result)
	})
}

// checkoutErrorResponse maps the service error taxonomy onto HTTP statuses.
func checkoutErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "entity not found"})
	case errors.Is(err, services.ErrAlreadySettled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already settled"})
	case errors.Is(err, services.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	case errors.Is(err, services.ErrProviderNotConfigured):
		return c.JSON(http.StatusNotImplemented, echo.Map{"error": "provider not configured"})
	}

	var pe *services.ProviderError
	if errors.As(err, &pe) {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":   "provider error",
			"details": pe.Error(),
		})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
