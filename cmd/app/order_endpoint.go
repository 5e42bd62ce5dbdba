package main

import (
	"net/http"
	"strconv"

	"CloudusAPI/internal/middleware"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type createOrderRequest struct {
	Description string `json:"description"`
	TotalAmount int64  `json:"totalAmount"` // minor units
	Currency    string `json:"currency"`
}

func registerOrderRoutes(g *echo.Group, ps *services.PayableService) {
	o := g.Group("/orders")
	o.Use(middleware.JWTMiddleware())

	o.POST("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "unauthenticated",
			})
		}

		req := new(createOrderRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}

		id, err := ps.CreateOrder(
			c.Request().Context(),
			cl.Email,
			req.Description,
			req.TotalAmount,
			req.Currency,
		)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"order_id": id,
		})
	})

	o.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid order id",
			})
		}

		order, err := ps.GetOrder(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "order not found",
			})
		}

		return c.JSON(http.StatusOK, order)
	})
}
