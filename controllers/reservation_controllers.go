package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/services"
	"github.com/restobook/restobook/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewReservationController(db *gorm.DB, svc *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Service: svc}
}

// CreateReservation -> book a table, best-fit assigned automatically
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		Date           string  `json:"date" binding:"required"` // "2006-01-02 15:04"
		PartySize      int     `json:"party_size" binding:"required"`
		SpecialRequest *string `json:"special_request"`
		GuestName      string  `json:"guest_name"` // admin bookings only
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := parseReservationDate(req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be formatted as 2006-01-02 15:04"))
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	reservation, err := rc.Service.Create(actor, services.CreateInput{
		Date:           date,
		PartySize:      req.PartySize,
		SpecialRequest: req.SpecialRequest,
		GuestName:      req.GuestName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	msg := fmt.Sprintf("Reservation created successfully. Table %s (capacity: %d) has been assigned.",
		reservation.Table.TableNumber, reservation.Table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, msg, reservation)
}

// MyReservations -> the authenticated customer's own reservations
func (rc *ReservationController) MyReservations(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	reservations, err := rc.Service.ForUser(actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My reservations", reservations)
}

// ListReservations -> admin view with date filter, search and pagination
func (rc *ReservationController) ListReservations(c *gin.Context) {
	filter := services.ListFilter{
		Search:   c.Query("search"),
		PageSize: 10,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := parseReservationDate(dateStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be formatted as 2006-01-02"))
			return
		}
		filter.Date = &date
	}

	reservations, total, err := rc.Service.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	totalPages := (total + int64(filter.PageSize) - 1) / int64(filter.PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", gin.H{
		"reservations": reservations,
		"total":        total,
		"total_pages":  totalPages,
	})
}

// EditReservation -> mutate a pending reservation; customers may trigger a
// reassignment, admins set fields directly
func (rc *ReservationController) EditReservation(c *gin.Context) {
	id, err := parseIDParam(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Date           string  `json:"date" binding:"required"`
		PartySize      int     `json:"party_size" binding:"required"`
		SpecialRequest *string `json:"special_request"`
		// admin-only fields, ignored for customers
		TableID   uint   `json:"table_id"`
		Status    string `json:"status"`
		GuestName string `json:"guest_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := parseReservationDate(req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be formatted as 2006-01-02 15:04"))
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	input := services.EditInput{
		Date:           date,
		PartySize:      req.PartySize,
		SpecialRequest: req.SpecialRequest,
	}
	if actor.IsAdmin() {
		input.Admin = &services.AdminOverrides{
			TableID:   req.TableID,
			Status:    models.ReservationStatus(req.Status),
			GuestName: req.GuestName,
		}
	}

	reservation, reassigned, err := rc.Service.Edit(actor, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	msg := "Reservation updated successfully"
	if reassigned {
		msg = fmt.Sprintf("Reservation updated, table reassigned to table %d", reservation.TableID)
	}
	utils.RespondJSON(c, http.StatusOK, msg, reservation)
}

// CancelReservation -> owner or admin cancels a pending reservation
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := parseIDParam(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	if err := rc.Service.Cancel(actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{"id": id})
}

// ConfirmReservation -> admin confirms a pending reservation
func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	id, err := parseIDParam(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Confirm(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation confirmed", reservation)
}

// RefuseReservation -> admin refuses a pending reservation
func (rc *ReservationController) RefuseReservation(c *gin.Context) {
	id, err := parseIDParam(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Refuse(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation refused", reservation)
}
