package main

import (
	"net/http"
	"strconv"
	"time"

	"CloudusAPI/internal/middleware"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type createBookingRequest struct {
	RoomName    string `json:"roomName"`
	CheckIn     string `json:"checkIn,omitempty"`  // YYYY-MM-DD
	CheckOut    string `json:"checkOut,omitempty"` // YYYY-MM-DD
	TotalAmount int64  `json:"totalAmount"`        // minor units
	Currency    string `json:"currency"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func registerBookingRoutes(g *echo.Group, ps *services.PayableService) {
	b := g.Group("/bookings")
	b.Use(middleware.JWTMiddleware())

	b.POST("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "unauthenticated",
			})
		}

		req := new(createBookingRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}

		checkIn, err := parseDate(req.CheckIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid checkIn date",
			})
		}
		checkOut, err := parseDate(req.CheckOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid checkOut date",
			})
		}

		id, err := ps.CreateBooking(
			c.Request().Context(),
			cl.Email,
			req.RoomName,
			checkIn,
			checkOut,
			req.TotalAmount,
			req.Currency,
		)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"booking_id": id,
		})
	})

	b.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid booking id",
			})
		}

		booking, err := ps.GetBooking(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "booking not found",
			})
		}

		return c.JSON(http.StatusOK, booking)
	})
}
