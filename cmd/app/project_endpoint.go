package main

import (
	"net/http"
	"strconv"

	"CloudusAPI/internal/middleware"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type createProjectPaymentRequest struct {
	ProjectName string `json:"projectName"`
	Milestone   string `json:"milestone"`
	TotalAmount int64  `json:"totalAmount"` // minor units
	Currency    string `json:"currency"`
}

func registerProjectRoutes(g *echo.Group, ps *services.PayableService) {
	p := g.Group("/project-payments")
	p.Use(middleware.JWTMiddleware())

	p.POST("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "unauthenticated",
			})
		}

		req := new(createProjectPaymentRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}

		id, err := ps.CreateProjectPayment(
			c.Request().Context(),
			cl.Email,
			req.ProjectName,
			req.Milestone,
			req.TotalAmount,
			req.Currency,
		)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"project_payment_id": id,
		})
	})

	p.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid project payment id",
			})
		}

		pp, err := ps.GetProjectPayment(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "project payment not found",
			})
		}

		return c.JSON(http.StatusOK, pp)
	})
}
