package rest

import (
	"net/http"
	"strings"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerHandler handles customer endpoints.
type CustomerHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(db *gorm.DB, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{db: db, log: log}
}

type createCustomerRequest struct {
	IsCompany bool    `json:"is_company"`
	CName     *string `json:"cname" binding:"omitempty,max=64"`
	FName     *string `json:"fname" binding:"omitempty,max=64"`
	LName     *string `json:"lname" binding:"omitempty,max=64"`
	Address1  *string `json:"address1" binding:"omitempty,max=128"`
	Address2  *string `json:"address2" binding:"omitempty,max=128"`
	Email     string  `json:"email" binding:"required,email,max=128"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	IsActive  *bool   `json:"is_active"`
}

type updateCustomerRequest struct {
	IsCompany *bool   `json:"is_company"`
	CName     *string `json:"cname" binding:"omitempty,max=64"`
	FName     *string `json:"fname" binding:"omitempty,max=64"`
	LName     *string `json:"lname" binding:"omitempty,max=64"`
	Address1  *string `json:"address1" binding:"omitempty,max=128"`
	Address2  *string `json:"address2" binding:"omitempty,max=128"`
	Email     *string `json:"email" binding:"omitempty,email,max=128"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	IsActive  *bool   `json:"is_active"`
}

type customerSearchQuery struct {
	FullName string `form:"full_name" binding:"required"`
}

func blank(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

// validCustomer requires a company name for companies and a first name for people.
func validCustomer(cu *model.Customer) error {
	if cu.IsCompany && blank(cu.CName) {
		return apperr.Invalid("cname is required for a company")
	}
	if !cu.IsCompany && blank(cu.FName) {
		return apperr.Invalid("fname is required for a person")
	}
	return nil
}

func findCustomer(db *gorm.DB, id int64) (*model.Customer, error) {
	var cu model.Customer
	if err := db.Take(&cu, id).Error; err != nil {
		return nil, apperr.FromDB(err, "customer")
	}
	return &cu, nil
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	customers := []model.Customer{}
	if err := h.db.WithContext(c.Request.Context()).Order("id").Find(&customers).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Search handles GET /customers/search?full_name=. The term matches, case
// insensitively, anywhere in "fname lname" or in the company name.
func (h *CustomerHandler) Search(c *gin.Context) {
	var q customerSearchQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	term := "%" + strings.ToLower(strings.TrimSpace(q.FullName)) + "%"
	fullName := "LOWER(COALESCE(fname, '') || ' ' || COALESCE(lname, ''))"
	if db.Dialector.Name() == "mysql" {
		fullName = "LOWER(CONCAT_WS(' ', COALESCE(fname, ''), COALESCE(lname, '')))"
	}
	customers := []model.Customer{}
	err := db.Where(fullName+" LIKE ? OR LOWER(COALESCE(cname, '')) LIKE ?", term, term).
		Order("id").
		Find(&customers).Error
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	cu := model.Customer{
		IsCompany: req.IsCompany,
		CName:     req.CName,
		FName:     req.FName,
		LName:     req.LName,
		Address1:  req.Address1,
		Address2:  req.Address2,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := validCustomer(&cu); err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&cu).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "customer"))
		return
	}
	c.JSON(http.StatusCreated, cu)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	cu, err := findCustomer(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cu)
}

// Update handles PUT/PATCH /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateCustomerRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	cu, err := findCustomer(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if req.IsCompany != nil {
		cu.IsCompany = *req.IsCompany
	}
	if req.CName != nil {
		cu.CName = req.CName
	}
	if req.FName != nil {
		cu.FName = req.FName
	}
	if req.LName != nil {
		cu.LName = req.LName
	}
	if req.Address1 != nil {
		cu.Address1 = req.Address1
	}
	if req.Address2 != nil {
		cu.Address2 = req.Address2
	}
	if req.Email != nil {
		cu.Email = *req.Email
	}
	if req.Phone != nil {
		cu.Phone = req.Phone
	}
	if req.IsActive != nil {
		cu.IsActive = *req.IsActive
	}
	if err := validCustomer(cu); err != nil {
		writeError(c, h.log, err)
		return
	}

	if err := db.Save(cu).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "customer"))
		return
	}
	c.JSON(http.StatusOK, cu)
}

// DeleteCustomer removes a customer with its contacts and vehicles. Orders
// and appointments that pointed at any of them keep existing with the
// reference cleared.
func DeleteCustomer(db *gorm.DB, id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findCustomer(tx, id); err != nil {
			return err
		}
		contacts := tx.Model(&model.Contact{}).Select("id").Where("customer_id = ?", id)
		vehicles := tx.Model(&model.Vehicle{}).Select("id").Where("customer_id = ?", id)

		steps := []func() *gorm.DB{
			func() *gorm.DB {
				return tx.Model(&model.Order{}).Where("customer_id = ?", id).Update("customer_id", nil)
			},
			func() *gorm.DB {
				return tx.Model(&model.Order{}).Where("contact_id IN (?)", contacts).Update("contact_id", nil)
			},
			func() *gorm.DB {
				return tx.Model(&model.Order{}).Where("vehicle_id IN (?)", vehicles).Update("vehicle_id", nil)
			},
			func() *gorm.DB {
				return tx.Model(&model.Appointment{}).Where("customer_id = ?", id).Update("customer_id", nil)
			},
			func() *gorm.DB {
				return tx.Model(&model.Appointment{}).Where("vehicle_id IN (?)", vehicles).Update("vehicle_id", nil)
			},
			func() *gorm.DB { return tx.Where("customer_id = ?", id).Delete(&model.Contact{}) },
			func() *gorm.DB { return tx.Where("customer_id = ?", id).Delete(&model.Vehicle{}) },
			func() *gorm.DB { return tx.Delete(&model.Customer{}, id) },
		}
		for _, step := range steps {
			if err := step().Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete handles DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	if err := DeleteCustomer(h.db.WithContext(c.Request.Context()), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Contacts handles GET /customers/:id/contacts.
func (h *CustomerHandler) Contacts(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	contacts, err := contactsOf(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// Vehicles handles GET /customers/:id/vehicles.
func (h *CustomerHandler) Vehicles(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
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
