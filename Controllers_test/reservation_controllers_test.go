package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/restobook/restobook/controllers"
	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/services"
	"github.com/restobook/restobook/utils"
)

// authAs stands in for the JWT middleware: it injects the identity the
// controllers read from the gin context.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
	}
}

func setupReservationRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authAs(userID, role))

	svc := services.NewReservationService(db)
	ctrl := controllers.NewReservationController(db, svc)
	router.POST("/reservations", ctrl.CreateReservation)
	router.GET("/reservations/my", ctrl.MyReservations)
	router.GET("/admin/reservations", ctrl.ListReservations)
	router.PATCH("/reservations/:reservation_id", ctrl.EditReservation)
	router.POST("/reservations/:reservation_id/cancel", ctrl.CancelReservation)
	router.POST("/admin/reservations/:reservation_id/confirm", ctrl.ConfirmReservation)
	router.POST("/admin/reservations/:reservation_id/refuse", ctrl.RefuseReservation)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestCreateReservationAssignsTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: "A1", Capacity: 2, IsActive: true})
	db.Create(&models.Table{TableNumber: "A2", Capacity: 4, IsActive: true})
	customer := models.User{Name: "Test Customer", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&customer)

	router := setupReservationRouter(db, customer.ID, models.RoleCustomer)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"date":       "2026-09-10 19:00",
		"party_size": 3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, true, response["status"])
	assert.Contains(t, response["message"], "Table A2")

	// Model fields carry no JSON tags, so keys keep the Go field names.
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["Status"])
	assert.EqualValues(t, 3, data["PartySize"])
}

func TestCreateReservationNoAvailability(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	table := models.Table{TableNumber: "A1", Capacity: 2, IsActive: true}
	db.Create(&table)
	customer := models.User{Name: "Test Customer", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&customer)

	router := setupReservationRouter(db, customer.ID, models.RoleCustomer)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"date":       "2026-09-10 19:00",
		"party_size": 2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// The only table is now taken for the day.
	w = postJSON(t, router, "/reservations", map[string]interface{}{
		"date":       "2026-09-10 12:00",
		"party_size": 2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, false, response["status"])
}

func TestCreateReservationRejectsBadDate(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	customer := models.User{Name: "Test Customer", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&customer)

	router := setupReservationRouter(db, customer.ID, models.RoleCustomer)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"date":       "next friday",
		"party_size": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelReservationFlow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: "A1", Capacity: 4, IsActive: true})
	customer := models.User{Name: "Test Customer", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&customer)

	router := setupReservationRouter(db, customer.ID, models.RoleCustomer)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"date":       "2026-09-10 19:00",
		"party_size": 2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	id := uint(data["ID"].(float64))

	w = postJSON(t, router, fmt.Sprintf("/reservations/%d/cancel", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Cancelling twice hits the terminal-state guard.
	w = postJSON(t, router, fmt.Sprintf("/reservations/%d/cancel", id), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelSomeoneElsesReservation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	table := models.Table{TableNumber: "A1", Capacity: 4, IsActive: true}
	db.Create(&table)
	owner := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&owner)
	stranger := models.User{Name: "Stranger", Email: "stranger@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&stranger)

	reservation := models.Reservation{
		UserID:          &owner.ID,
		TableID:         table.ID,
		ReservationDate: time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC),
		PartySize:       2,
		Status:          models.StatusPending,
	}
	db.Create(&reservation)

	router := setupReservationRouter(db, stranger.ID, models.RoleCustomer)
	w := postJSON(t, router, fmt.Sprintf("/reservations/%d/cancel", reservation.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConfirmAndRefuseEndpoints(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	table := models.Table{TableNumber: "A1", Capacity: 4, IsActive: true}
	db.Create(&table)
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	db.Create(&admin)

	guest := "Walk-in"
	first := models.Reservation{
		GuestName:       &guest,
		TableID:         table.ID,
		ReservationDate: time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC),
		PartySize:       2,
		Status:          models.StatusPending,
	}
	db.Create(&first)
	second := models.Reservation{
		GuestName:       &guest,
		TableID:         table.ID,
		ReservationDate: time.Date(2026, 9, 11, 19, 0, 0, 0, time.UTC),
		PartySize:       2,
		Status:          models.StatusPending,
	}
	db.Create(&second)

	router := setupReservationRouter(db, admin.ID, models.RoleAdmin)

	w := postJSON(t, router, fmt.Sprintf("/admin/reservations/%d/confirm", first.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["Status"])

	w = postJSON(t, router, fmt.Sprintf("/admin/reservations/%d/refuse", second.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "cancelled", data["Status"])

	// Confirmed is terminal.
	w = postJSON(t, router, fmt.Sprintf("/admin/reservations/%d/refuse", first.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown reservation.
	w = postJSON(t, router, "/admin/reservations/9999/confirm", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditReservationReassignsTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	small := models.Table{TableNumber: "A1", Capacity: 2, IsActive: true}
	big := models.Table{TableNumber: "A2", Capacity: 6, IsActive: true}
	db.Create(&small)
	db.Create(&big)
	customer := models.User{Name: "Test Customer", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer}
	db.Create(&customer)

	router := setupReservationRouter(db, customer.ID, models.RoleCustomer)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"date":       "2026-09-10 19:00",
		"party_size": 2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	id := uint(data["ID"].(float64))
	assert.EqualValues(t, small.ID, data["TableID"])

	// Growing the party beyond the 2-seater forces a reassignment.
	body, err := json.Marshal(map[string]interface{}{
		"date":       "2026-09-10 19:00",
		"party_size": 5,
	})
	assert.NoError(t, err)
	req, err := http.NewRequest("PATCH", fmt.Sprintf("/reservations/%d", id), bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, big.ID, data["TableID"])
	assert.EqualValues(t, 5, data["PartySize"])
}

func TestListReservationsPagination(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	table := models.Table{TableNumber: "A1", Capacity: 4, IsActive: true}
	db.Create(&table)
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	db.Create(&admin)

	guest := "Walk-in"
	for day := 1; day <= 12; day++ {
		db.Create(&models.Reservation{
			GuestName:       &guest,
			TableID:         table.ID,
			ReservationDate: time.Date(2026, 9, day, 19, 0, 0, 0, time.UTC),
			PartySize:       2,
			Status:          models.StatusPending,
		})
	}

	router := setupReservationRouter(db, admin.ID, models.RoleAdmin)

	req, err := http.NewRequest("GET", "/admin/reservations?page=2", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 12, data["total"])
	assert.EqualValues(t, 2, data["total_pages"])
	assert.Len(t, data["reservations"], 2)

	// Date filter narrows to a single day.
	req, err = http.NewRequest("GET", "/admin/reservations?date=2026-09-03", nil)
	assert.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])
}
