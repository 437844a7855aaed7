package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/restobook/restobook/controllers"
	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/utils"
)

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tableCtrl := controllers.NewTableController(db)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.GET("/tables/:table_id", tableCtrl.GetTableByID)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func TestCreateAndListTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupTableRouter(db)

	payload := map[string]interface{}{"table_number": "A1", "capacity": 4}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "Table created successfully", response["message"])
	data := response["data"].(map[string]interface{})
	// Tables default to active unless the payload says otherwise.
	assert.Equal(t, true, data["IsActive"])

	req, err = http.NewRequest("GET", "/tables", nil)
	assert.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	response = decodeBody(t, w)
	assert.Equal(t, "List of tables", response["message"])
	assert.Len(t, response["data"].([]interface{}), 1)
}

func TestCreateTableRejectsZeroCapacity(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupTableRouter(db)

	payload := map[string]interface{}{"table_number": "A1", "capacity": 0}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTableDeactivates(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)

	table := models.Table{TableNumber: "C1", Capacity: 4, IsActive: true}
	db.Create(&table)

	router := setupTableRouter(db)

	inactive := false
	payload := map[string]interface{}{"is_active": inactive}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, err := http.NewRequest("PATCH", url, bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "Table updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, false, data["IsActive"])
	// Untouched fields survive a partial update.
	assert.Equal(t, "C1", data["TableNumber"])
	assert.EqualValues(t, 4, data["Capacity"])
}

func TestDeleteTableWithHistoryRefused(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)

	table := models.Table{TableNumber: "D1", Capacity: 4, IsActive: true}
	db.Create(&table)
	guest := "Walk-in"
	db.Create(&models.Reservation{
		GuestName:       &guest,
		TableID:         table.ID,
		ReservationDate: time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC),
		PartySize:       2,
		Status:          models.StatusCancelled,
	})

	router := setupTableRouter(db)

	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, err := http.NewRequest("DELETE", url, nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	// Even a cancelled reservation counts as history.
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteUnusedTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)

	table := models.Table{TableNumber: "E1", Capacity: 2, IsActive: true}
	db.Create(&table)

	router := setupTableRouter(db)

	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, err := http.NewRequest("DELETE", url, nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
