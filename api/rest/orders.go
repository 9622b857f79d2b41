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

// OrderHandler handles work order endpoints.
type OrderHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(db *gorm.DB, log *zap.Logger) *OrderHandler {
	return &OrderHandler{db: db, log: log}
}

type createOrderRequest struct {
	COrderID     string     `json:"c_order_id" binding:"required,max=64"`
	OrderDate    *time.Time `json:"order_date"`
	AdvisorID    *int64     `json:"advisor_id"`
	MechanicID   *int64     `json:"mechanic_id"`
	CustomerID   *int64     `json:"customer_id"`
	ContactID    *int64     `json:"contact_id"`
	VehicleID    *int64     `json:"vehicle_id"`
	PMileage     *int       `json:"p_mileage" binding:"omitempty,min=0"`
	CMileage     *int       `json:"c_mileage" binding:"omitempty,min=0"`
	AdmStatusID  *int64     `json:"adm_status_id"`
	OpStatusID   *int64     `json:"op_status_id"`
	PriorityID   *int64     `json:"priority_id"`
	HasExtraInfo bool       `json:"has_extra_info"`
	FuelLevel    *int       `json:"fuel_level" binding:"omitempty,min=0,max=100"`
	ServiceBay   *string    `json:"service_bay" binding:"omitempty,max=32"`
}

type updateOrderRequest struct {
	COrderID     *string    `json:"c_order_id" binding:"omitempty,min=1,max=64"`
	OrderDate    *time.Time `json:"order_date"`
	AdvisorID    *int64     `json:"advisor_id"`
	MechanicID   *int64     `json:"mechanic_id"`
	CustomerID   *int64     `json:"customer_id"`
	ContactID    *int64     `json:"contact_id"`
	VehicleID    *int64     `json:"vehicle_id"`
	PMileage     *int       `json:"p_mileage" binding:"omitempty,min=0"`
	CMileage     *int       `json:"c_mileage" binding:"omitempty,min=0"`
	AdmStatusID  *int64     `json:"adm_status_id"`
	OpStatusID   *int64     `json:"op_status_id"`
	PriorityID   *int64     `json:"priority_id"`
	HasExtraInfo *bool      `json:"has_extra_info"`
	FuelLevel    *int       `json:"fuel_level" binding:"omitempty,min=0,max=100"`
	ServiceBay   *string    `json:"service_bay" binding:"omitempty,max=32"`
}

type orderListQuery struct {
	CustomerID *int64 `form:"customer_id"`
	OpStatusID *int64 `form:"op_status_id"`
}

func orDefault(id *int64, def int64) int64 {
	if id == nil {
		return def
	}
	return *id
}

func findOrder(db *gorm.DB, id int64) (*model.Order, error) {
	var o model.Order
	if err := db.Take(&o, id).Error; err != nil {
		return nil, apperr.FromDB(err, "order")
	}
	return &o, nil
}

// List handles GET /orders, newest first, with optional customer_id and
// op_status_id filters.
func (h *OrderHandler) List(c *gin.Context) {
	var q orderListQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	db := h.db.WithContext(c.Request.Context()).Order("order_date DESC, id DESC")
	if q.CustomerID != nil {
		db = db.Where("customer_id = ?", *q.CustomerID)
	}
	if q.OpStatusID != nil {
		db = db.Where("op_status_id = ?", *q.OpStatusID)
	}
	orders := []model.Order{}
	if err := db.Find(&orders).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Create handles POST /orders. Status and priority default to the seeded rows.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	o := model.Order{
		COrderID:     req.COrderID,
		OrderDate:    time.Now().UTC(),
		AdvisorID:    req.AdvisorID,
		MechanicID:   req.MechanicID,
		CustomerID:   req.CustomerID,
		ContactID:    req.ContactID,
		VehicleID:    req.VehicleID,
		PMileage:     req.PMileage,
		CMileage:     req.CMileage,
		AdmStatusID:  orDefault(req.AdmStatusID, model.DefaultAdmStatusID),
		OpStatusID:   orDefault(req.OpStatusID, model.DefaultOpStatusID),
		PriorityID:   orDefault(req.PriorityID, model.DefaultPriorityID),
		HasExtraInfo: req.HasExtraInfo,
		FuelLevel:    req.FuelLevel,
		ServiceBay:   req.ServiceBay,
	}
	if req.OrderDate != nil {
		o.OrderDate = req.OrderDate.UTC()
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&o).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "order"))
		return
	}
	c.JSON(http.StatusCreated, o)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	o, err := findOrder(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ByCode handles GET /orders/code/:code, looking up the customer-facing code.
func (h *OrderHandler) ByCode(c *gin.Context) {
	var o model.Order
	err := h.db.WithContext(c.Request.Context()).Where("c_order_id = ?", c.Param("code")).Take(&o).Error
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "order"))
		return
	}
	c.JSON(http.StatusOK, o)
}

// Update handles PUT/PATCH /orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateOrderRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	o, err := findOrder(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if req.COrderID != nil {
		o.COrderID = *req.COrderID
	}
	if req.OrderDate != nil {
		o.OrderDate = req.OrderDate.UTC()
	}
	if req.AdvisorID != nil {
		o.AdvisorID = req.AdvisorID
	}
	if req.MechanicID != nil {
		o.MechanicID = req.MechanicID
	}
	if req.CustomerID != nil {
		o.CustomerID = req.CustomerID
	}
	if req.ContactID != nil {
		o.ContactID = req.ContactID
	}
	if req.VehicleID != nil {
		o.VehicleID = req.VehicleID
	}
	if req.PMileage != nil {
		o.PMileage = req.PMileage
	}
	if req.CMileage != nil {
		o.CMileage = req.CMileage
	}
	if req.AdmStatusID != nil {
		o.AdmStatusID = *req.AdmStatusID
	}
	if req.OpStatusID != nil {
		o.OpStatusID = *req.OpStatusID
	}
	if req.PriorityID != nil {
		o.PriorityID = *req.PriorityID
	}
	if req.HasExtraInfo != nil {
		o.HasExtraInfo = *req.HasExtraInfo
	}
	if req.FuelLevel != nil {
		o.FuelLevel = req.FuelLevel
	}
	if req.ServiceBay != nil {
		o.ServiceBay = req.ServiceBay
	}

	if err := db.Omit(clause.Associations).Save(o).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "order"))
		return
	}
	c.JSON(http.StatusOK, o)
}

// Delete handles DELETE /orders/:id together with the order's extra info,
// inventory and bodywork rows.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&model.ExtraInfo{}, &model.InventoryData{}, &model.BodyworkData{}} {
			if err := tx.Where("order_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("order not found")
		}
		return nil
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
