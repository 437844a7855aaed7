package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restobook/restobook/services"
	"github.com/restobook/restobook/utils"
	"gorm.io/gorm"
)

type AvailabilityController struct {
	DB      *gorm.DB
	Checker *services.AvailabilityChecker
}

func NewAvailabilityController(db *gorm.DB) *AvailabilityController {
	return &AvailabilityController{DB: db, Checker: services.NewAvailabilityChecker(db)}
}

// GetAvailability -> per-table availability for a date, optionally at a
// specific time (?date=2006-01-02&time=19:00)
func (ac *AvailabilityController) GetAvailability(c *gin.Context) {
	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be formatted as 2006-01-02"))
			return
		}
		date = parsed
	}

	var at *services.TimeOfDay
	if timeStr := c.Query("time"); timeStr != "" {
		parsed, err := services.ParseTimeOfDay(timeStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("time must be formatted as 15:04"))
			return
		}
		at = &parsed
	}

	tables, err := ac.Checker.GetAvailability(date, at)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table availability", gin.H{
		"date":   date.Format("2006-01-02"),
		"tables": tables,
	})
}
