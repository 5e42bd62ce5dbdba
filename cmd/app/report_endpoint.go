package main

import (
	"net/http"
	"strconv"

	"CloudusAPI/internal/middleware"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerReportRoutes(g *echo.Group, rs *services.ReportService) {
	p := g.Group("/payments")
	p.Use(middleware.JWTMiddleware())

	// Payment history for one payable entity.
	p.GET("/:entityType/:entityId", func(c echo.Context) error {
		entityType, ok := entityTypeFromPath[c.Param("entityType")]
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "unknown entity type",
			})
		}

		entityID, err := strconv.ParseInt(c.Param("entityId"), 10, 64)
		if err != nil || entityID <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid entity id",
			})
		}

		payments, err := rs.ListPayments(c.Request().Context(), entityType, entityID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "internal error",
			})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"payments": payments,
		})
	})

	r := p.Group("/reports")
	r.Use(middleware.AdminOnly)

	r.GET("/summary", func(c echo.Context) error {
		rows, err := rs.Summary(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "internal error",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"summary": rows,
		})
	})

	r.GET("/audit", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))

		entries, err := rs.AuditTrail(c.Request().Context(), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "internal error",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"audit": entries,
		})
	})
}
