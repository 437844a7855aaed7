package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/services"
	"github.com/restobook/restobook/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> reservation, table and account counters for the
// admin dashboard, plus the last 7 days of reservation volume
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalReservations     int64   `json:"total_reservations"`
		PendingReservations   int64   `json:"pending_reservations"`
		ConfirmedReservations int64   `json:"confirmed_reservations"`
		CancelledReservations int64   `json:"cancelled_reservations"`
		TodayReservations     int64   `json:"today_reservations"`
		TotalTables           int64   `json:"total_tables"`
		ActiveTables          int64   `json:"active_tables"`
		TotalCustomers        int64   `json:"total_customers"`
		TotalMenuItems        int64   `json:"total_menu_items"`
		WeeklyDates           []string `json:"weekly_dates"`
		WeeklyCounts          []int64  `json:"weekly_counts"`
	}

	if err := ac.DB.Model(&models.Reservation{}).Count(&stats.TotalReservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.StatusPending).Count(&stats.PendingReservations)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.StatusConfirmed).Count(&stats.ConfirmedReservations)
	ac.DB.Model(&models.Reservation{}).Where("status = ?", models.StatusCancelled).Count(&stats.CancelledReservations)

	todayStart, todayEnd := services.DayBounds(time.Now())
	ac.DB.Model(&models.Reservation{}).
		Where("reservation_date >= ? AND reservation_date < ?", todayStart, todayEnd).
		Count(&stats.TodayReservations)

	ac.DB.Model(&models.Table{}).Count(&stats.TotalTables)
	ac.DB.Model(&models.Table{}).Where("is_active = ?", true).Count(&stats.ActiveTables)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&stats.TotalCustomers)
	ac.DB.Model(&models.MenuItem{}).Count(&stats.TotalMenuItems)

	// Last 7 days of reservation volume, zero-filled.
	for i := 6; i >= 0; i-- {
		dayStart, dayEnd := services.DayBounds(time.Now().AddDate(0, 0, -i))
		var count int64
		ac.DB.Model(&models.Reservation{}).
			Where("reservation_date >= ? AND reservation_date < ?", dayStart, dayEnd).
			Count(&count)
		stats.WeeklyDates = append(stats.WeeklyDates, dayStart.Format("02/01"))
		stats.WeeklyCounts = append(stats.WeeklyCounts, count)
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
