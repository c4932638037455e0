package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sevahub/home-services/internal/booking"
	"github.com/sevahub/home-services/internal/middleware"
	"github.com/sevahub/home-services/internal/repository"
)

// BookingHandler exposes the admission endpoint and the requester's
// booking reads.  JWT authentication and role validation run in
// middleware before these methods; they read the user id and role
// from the request context.
type BookingHandler struct {
	Orchestrator *booking.Orchestrator
	Bookings     *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(orc *booking.Orchestrator, bookings *repository.BookingRepo) *BookingHandler {
	if orc == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Orchestrator: orc, Bookings: bookings}
}

// Create handles POST /v1/bookings.  The Idempotency-Key header takes
// precedence over the body field.  Successful admissions return 201;
// idempotent replays return 200 with the previously committed booking.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req booking.AdmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"code":    booking.CodeInvalidRequest,
			"message": "invalid request body",
		})
	}
	if key := c.Request().Header.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	res, aerr := h.Orchestrator.Admit(c.Request().Context(), userID, middleware.Role(c), &req)
	if aerr != nil {
		if aerr.RetryAfterSeconds > 0 {
			c.Response().Header().Set("Retry-After", strconv.Itoa(aerr.RetryAfterSeconds))
		}
		return c.JSON(aerr.Status, aerr)
	}

	status := http.StatusCreated
	if res.Idempotent {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{
		"booking": res.Booking,
		"discounts": echo.Map{
			"promo":      res.Booking.PromoDiscount,
			"referral":   res.Booking.ReferralDiscount,
			"membership": res.Booking.MembershipDiscount,
			"total":      res.Booking.Price.Discount,
		},
		"idempotent": res.Idempotent,
	})
}

// List handles GET /v1/bookings, newest first, scoped to the
// requester.
func (h *BookingHandler) List(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Get handles GET /v1/bookings/:id.  Requesters can only read their
// own bookings.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
