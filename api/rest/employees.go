package rest

import (
	"net/http"
	"strings"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeHandler handles employee endpoints.
type EmployeeHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(db *gorm.DB, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{db: db, log: log}
}

type createEmployeeRequest struct {
	FName      string  `json:"fname" binding:"required,max=64"`
	LName1     string  `json:"lname1" binding:"required,max=64"`
	LName2     *string `json:"lname2" binding:"omitempty,max=64"`
	Email      *string `json:"email" binding:"omitempty,email,max=128"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
	PositionID *int64  `json:"position_id"`
	IsActive   *bool   `json:"is_active"`
}

type updateEmployeeRequest struct {
	FName      *string `json:"fname" binding:"omitempty,min=1,max=64"`
	LName1     *string `json:"lname1" binding:"omitempty,min=1,max=64"`
	LName2     *string `json:"lname2" binding:"omitempty,max=64"`
	Email      *string `json:"email" binding:"omitempty,email,max=128"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
	PositionID *int64  `json:"position_id"`
	IsActive   *bool   `json:"is_active"`
}

type employeeListQuery struct {
	Active *bool `form:"active"`
}

type employeeSearchQuery struct {
	Name string `form:"name" binding:"required"`
}

func (h *EmployeeHandler) find(db *gorm.DB, id int64) (*model.Employee, error) {
	var e model.Employee
	if err := db.Preload("Position").Take(&e, id).Error; err != nil {
		return nil, apperr.FromDB(err, "employee")
	}
	return &e, nil
}

func requirePosition(db *gorm.DB, id *int64) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := db.Model(&model.Position{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("position %d not found", *id)
	}
	return nil
}

// List handles GET /employees with an optional ?active= filter.
func (h *EmployeeHandler) List(c *gin.Context) {
	var q employeeListQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	db := h.db.WithContext(c.Request.Context()).Preload("Position").Order("id")
	if q.Active != nil {
		db = db.Where("is_active = ?", *q.Active)
	}
	employees := []model.Employee{}
	if err := db.Find(&employees).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Search handles GET /employees/search?name= over "fname lname1 lname2".
func (h *EmployeeHandler) Search(c *gin.Context) {
	var q employeeSearchQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	term := "%" + strings.ToLower(strings.TrimSpace(q.Name)) + "%"
	fullName := "LOWER(fname || ' ' || lname1 || ' ' || COALESCE(lname2, ''))"
	if db.Dialector.Name() == "mysql" {
		fullName = "LOWER(CONCAT_WS(' ', fname, lname1, COALESCE(lname2, '')))"
	}
	employees := []model.Employee{}
	if err := db.Preload("Position").Where(fullName+" LIKE ?", term).Order("id").Find(&employees).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// ByPosition handles GET /employees/position/:position_id.
func (h *EmployeeHandler) ByPosition(c *gin.Context) {
	id, ok := pathID(c, h.log, "position_id")
	if !ok {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	if err := requirePosition(db, &id); err != nil {
		writeError(c, h.log, err)
		return
	}
	employees := []model.Employee{}
	if err := db.Preload("Position").Where("position_id = ?", id).Order("id").Find(&employees).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	if err := requirePosition(db, req.PositionID); err != nil {
		writeError(c, h.log, err)
		return
	}
	e := model.Employee{
		FName:      req.FName,
		LName1:     req.LName1,
		LName2:     req.LName2,
		Email:      req.Email,
		Phone:      req.Phone,
		PositionID: req.PositionID,
		IsActive:   req.IsActive == nil || *req.IsActive,
	}
	if err := db.Create(&e).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "employee"))
		return
	}
	created, err := h.find(db, e.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /employees/:id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	e, err := h.find(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Update handles PUT/PATCH /employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateEmployeeRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	e, err := h.find(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := requirePosition(db, req.PositionID); err != nil {
		writeError(c, h.log, err)
		return
	}

	if req.FName != nil {
		e.FName = *req.FName
	}
	if req.LName1 != nil {
		e.LName1 = *req.LName1
	}
	if req.LName2 != nil {
		e.LName2 = req.LName2
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if req.PositionID != nil {
		e.PositionID = req.PositionID
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := db.Omit(clause.Associations).Save(e).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "employee"))
		return
	}
	updated, err := h.find(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /employees/:id. Orders keep existing without the
// advisor or mechanic reference.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).Where("advisor_id = ?", id).Update("advisor_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Order{}).Where("mechanic_id = ?", id).Update("mechanic_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Employee{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("employee not found")
		}
		return nil
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
