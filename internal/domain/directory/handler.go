package directory

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the user and doctor endpoints. admin applies the
// configured deny policy. promoteGate guards PUT /users/admin/:id only and
// must answer non-admins with 403.
func (h *Handler) RegisterRoutes(e *echo.Echo, token, admin, promoteGate echo.MiddlewareFunc) {
	e.GET("/jwt", h.IssueToken)

	e.GET("/users", h.ListUsers, token, admin)
	e.GET("/users/admin/:email", h.AdminStatus)
	e.POST("/users", h.Register)
	e.PUT("/users/admin/:id", h.Promote, token, promoteGate)
	e.PUT("/users/regular/:id", h.Demote, token, admin)
	e.DELETE("/users/admin/:id", h.RemoveUser, token, admin)

	e.GET("/doctors", h.ListDoctors, token, admin)
	e.POST("/doctors", h.AddDoctor, token, admin)
	e.DELETE("/doctors/:id", h.RemoveDoctor, token, admin)
}

// IssueToken answers 403 with an empty token for unknown emails.
func (h *Handler) IssueToken(c echo.Context) error {
	token, ok, err := h.svc.IssueToken(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusForbidden, TokenResponse{})
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token})
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) AdminStatus(c echo.Context) error {
	isAdmin, err := h.svc.IsAdmin(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AdminStatus{IsAdmin: isAdmin})
}

func (h *Handler) Register(c echo.Context) error {
	var u User
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user body")
	}
	if u.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	res, err := h.svc.Register(c.Request().Context(), &u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Promote(c echo.Context) error {
	res, err := h.svc.Promote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Demote(c echo.Context) error {
	res, err := h.svc.Demote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RemoveUser(c echo.Context) error {
	res, err := h.svc.RemoveUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.Doctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) AddDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor body")
	}
	if err := ValidateDoctor(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.AddDoctor(c.Request().Context(), &d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RemoveDoctor(c echo.Context) error {
	res, err := h.svc.RemoveDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
