package rest

import (
	"net/http"
	"time"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAppointmentHandler(db *gorm.DB, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{db: db, log: log}
}

type createAppointmentRequest struct {
	CustomerID *int64    `json:"customer_id"`
	VehicleID  *int64    `json:"vehicle_id"`
	Date       time.Time `json:"date" binding:"required"`
	ReasonID   *int64    `json:"reason_id"`
	StatusID   *int64    `json:"status_id"`
	Notes      *string   `json:"notes"`
}

type updateAppointmentRequest struct {
	CustomerID *int64     `json:"customer_id"`
	VehicleID  *int64     `json:"vehicle_id"`
	Date       *time.Time `json:"date"`
	ReasonID   *int64     `json:"reason_id"`
	StatusID   *int64     `json:"status_id"`
	Notes      *string    `json:"notes"`
}

type appointmentListQuery struct {
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	StatusID *int64     `form:"status_id"`
}

func withAppointmentDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").Preload("Reason")
}

func findAppointment(db *gorm.DB, id int64) (*model.Appointment, error) {
	var a model.Appointment
	if err := withAppointmentDetails(db).Take(&a, id).Error; err != nil {
		return nil, apperr.FromDB(err, "appointment")
	}
	return &a, nil
}

// List handles GET /appointments ordered by date. from/to (YYYY-MM-DD) bound
// the date range, to being inclusive.
func (h *AppointmentHandler) List(c *gin.Context) {
	var q appointmentListQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	db := withAppointmentDetails(h.db.WithContext(c.Request.Context())).Order("date, id")
	if q.From != nil {
		db = db.Where("date >= ?", q.From.UTC())
	}
	if q.To != nil {
		db = db.Where("date < ?", q.To.UTC().AddDate(0, 0, 1))
	}
	if q.StatusID != nil {
		db = db.Where("status_id = ?", *q.StatusID)
	}
	appointments := []model.Appointment{}
	if err := db.Find(&appointments).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// Create handles POST /appointments.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	a := model.Appointment{
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		Date:       req.Date.UTC(),
		ReasonID:   req.ReasonID,
		StatusID:   orDefault(req.StatusID, model.DefaultAppointmentStatusID),
		Notes:      req.Notes,
	}
	if err := db.Create(&a).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "appointment"))
		return
	}
	created, err := findAppointment(db, a.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /appointments/:id.
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	a, err := findAppointment(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Update handles PUT/PATCH /appointments/:id.
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateAppointmentRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	var a model.Appointment
	if err := db.Take(&a, id).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "appointment"))
		return
	}

	if req.CustomerID != nil {
		a.CustomerID = req.CustomerID
	}
	if req.VehicleID != nil {
		a.VehicleID = req.VehicleID
	}
	if req.Date != nil {
		a.Date = req.Date.UTC()
	}
	if req.ReasonID != nil {
		a.ReasonID = req.ReasonID
	}
	if req.StatusID != nil {
		a.StatusID = *req.StatusID
	}
	if req.Notes != nil {
		a.Notes = req.Notes
	}

	if err := db.Omit(clause.Associations).Save(&a).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "appointment"))
		return
	}
	updated, err := findAppointment(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /appointments/:id.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&model.Appointment{}, id)
	if res.Error != nil {
		writeError(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeError(c, h.log, apperr.NotFound("appointment not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
