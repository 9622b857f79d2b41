package rest

import (
	"net/http"
	"strings"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VehicleHandler handles vehicle endpoints.
type VehicleHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(db *gorm.DB, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{db: db, log: log}
}

type createVehicleRequest struct {
	CustomerID     *int64           `json:"customer_id"`
	VIN            string           `json:"vin" binding:"required,min=5,max=17"`
	Plate          *string          `json:"plate" binding:"omitempty,max=16"`
	Year           *int             `json:"year" binding:"omitempty,min=1900,max=2100"`
	ModelID        *int64           `json:"model_id"`
	Mileage        *int             `json:"mileage" binding:"omitempty,min=0"`
	ColorID        *int64           `json:"color_id"`
	MotorID        *int64           `json:"motor_id"`
	TransmissionID *int64           `json:"transmission_id"`
	Cylinders      *int             `json:"cylinders" binding:"omitempty,min=0,max=16"`
	Liters         *decimal.Decimal `json:"liters"`
	VTypeID        *int64           `json:"v_type_id"`
}

type updateVehicleRequest struct {
	CustomerID     *int64           `json:"customer_id"`
	VIN            *string          `json:"vin" binding:"omitempty,min=5,max=17"`
	Plate          *string          `json:"plate" binding:"omitempty,max=16"`
	Year           *int             `json:"year" binding:"omitempty,min=1900,max=2100"`
	ModelID        *int64           `json:"model_id"`
	Mileage        *int             `json:"mileage" binding:"omitempty,min=0"`
	ColorID        *int64           `json:"color_id"`
	MotorID        *int64           `json:"motor_id"`
	TransmissionID *int64           `json:"transmission_id"`
	Cylinders      *int             `json:"cylinders" binding:"omitempty,min=0,max=16"`
	Liters         *decimal.Decimal `json:"liters"`
	VTypeID        *int64           `json:"v_type_id"`
}

var maxLiters = decimal.NewFromInt(999)

func validLiters(l *decimal.Decimal) error {
	if l == nil {
		return nil
	}
	if l.IsNegative() || l.GreaterThan(maxLiters) {
		return apperr.Invalid("liters out of range")
	}
	return nil
}

func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// withVehicleDetails preloads the lookup rows embedded in vehicle responses.
func withVehicleDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Model.Make").
		Preload("Color").
		Preload("Motor").
		Preload("Transmission").
		Preload("VehicleType")
}

func findVehicle(db *gorm.DB, id int64) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := withVehicleDetails(db).Take(&v, id).Error; err != nil {
		return nil, apperr.FromDB(err, "vehicle")
	}
	return &v, nil
}

// vehiclesOf lists a customer's vehicles, 404 when the customer is unknown.
func vehiclesOf(db *gorm.DB, customerID int64) ([]model.Vehicle, error) {
	if _, err := findCustomer(db, customerID); err != nil {
		return nil, err
	}
	vehicles := []model.Vehicle{}
	err := withVehicleDetails(db).Where("customer_id = ?", customerID).Order("id").Find(&vehicles).Error
	return vehicles, err
}

// List handles GET /vehicles.
func (h *VehicleHandler) List(c *gin.Context) {
	vehicles := []model.Vehicle{}
	if err := withVehicleDetails(h.db.WithContext(c.Request.Context())).Order("id").Find(&vehicles).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// ByCustomer handles GET /vehicles/customer/:customer_id.
func (h *VehicleHandler) ByCustomer(c *gin.Context) {
	id, ok := pathID(c, h.log, "customer_id")
	if !ok {
		return
	}
	vehicles, err := vehiclesOf(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// Create handles POST /vehicles. A duplicate VIN is a conflict; an unknown
// customer or lookup id is a 404.
func (h *VehicleHandler) Create(c *gin.Context) {
	var req createVehicleRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	if err := validLiters(req.Liters); err != nil {
		writeError(c, h.log, err)
		return
	}
	db := h.db.WithContext(c.Request.Context())
	v := model.Vehicle{
		CustomerID:     req.CustomerID,
		VIN:            normalizeVIN(req.VIN),
		Plate:          req.Plate,
		Year:           req.Year,
		ModelID:        req.ModelID,
		Mileage:        req.Mileage,
		ColorID:        req.ColorID,
		MotorID:        req.MotorID,
		TransmissionID: req.TransmissionID,
		Cylinders:      req.Cylinders,
		Liters:         req.Liters,
		VTypeID:        req.VTypeID,
	}
	if err := db.Create(&v).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "vehicle"))
		return
	}
	created, err := findVehicle(db, v.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /vehicles/:id.
func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	v, err := findVehicle(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Update handles PUT/PATCH /vehicles/:id.
func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateVehicleRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	if err := validLiters(req.Liters); err != nil {
		writeError(c, h.log, err)
		return
	}
	db := h.db.WithContext(c.Request.Context())
	var v model.Vehicle
	if err := db.Take(&v, id).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "vehicle"))
		return
	}

	if req.CustomerID != nil {
		v.CustomerID = req.CustomerID
	}
	if req.VIN != nil {
		v.VIN = normalizeVIN(*req.VIN)
	}
	if req.Plate != nil {
		v.Plate = req.Plate
	}
	if req.Year != nil {
		v.Year = req.Year
	}
	if req.ModelID != nil {
		v.ModelID = req.ModelID
	}
	if req.Mileage != nil {
		v.Mileage = req.Mileage
	}
	if req.ColorID != nil {
		v.ColorID = req.ColorID
	}
	if req.MotorID != nil {
		v.MotorID = req.MotorID
	}
	if req.TransmissionID != nil {
		v.TransmissionID = req.TransmissionID
	}
	if req.Cylinders != nil {
		v.Cylinders = req.Cylinders
	}
	if req.Liters != nil {
		v.Liters = req.Liters
	}
	if req.VTypeID != nil {
		v.VTypeID = req.VTypeID
	}

	if err := db.Omit(clause.Associations).Save(&v).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "vehicle"))
		return
	}
	updated, err := findVehicle(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /vehicles/:id. Orders and appointments lose the reference.
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).Where("vehicle_id = ?", id).Update("vehicle_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Appointment{}).Where("vehicle_id = ?", id).Update("vehicle_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Vehicle{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("vehicle not found")
		}
		return nil
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
