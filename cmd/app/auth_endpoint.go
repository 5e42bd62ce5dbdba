package main

import (
	"net/http"

	"CloudusAPI/internal/middleware"
	"CloudusAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService) {
	a := g.Group("/auth")

	a.POST("/register", func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}

		id, err := authSvc.Register(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"authid": id,
		})
	})

	a.POST("/login", func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}

		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": err.Error(),
			})
		}

		token, err := middleware.GenerateToken(user.AuthID, user.Email, user.Role, 24)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "could not issue token",
			})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token": token,
			"role":  user.Role,
		})
	})
}
