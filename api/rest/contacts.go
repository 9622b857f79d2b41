package rest

import (
	"net/http"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContactHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewContactHandler(db *gorm.DB, log *zap.Logger) *ContactHandler {
	return &ContactHandler{db: db, log: log}
}

type createContactRequest struct {
	CustomerID int64   `json:"customer_id" binding:"required"`
	FName      string  `json:"fname" binding:"required,max=64"`
	LName      *string `json:"lname" binding:"omitempty,max=64"`
	Email      *string `json:"email" binding:"omitempty,email,max=128"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
}

type updateContactRequest struct {
	CustomerID *int64  `json:"customer_id"`
	FName      *string `json:"fname" binding:"omitempty,min=1,max=64"`
	LName      *string `json:"lname" binding:"omitempty,max=64"`
	Email      *string `json:"email" binding:"omitempty,email,max=128"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
}

// contactsOf lists a customer's contacts, 404 when the customer is unknown.
func contactsOf(db *gorm.DB, customerID int64) ([]model.Contact, error) {
	if _, err := findCustomer(db, customerID); err != nil {
		return nil, err
	}
	contacts := []model.Contact{}
	err := db.Where("customer_id = ?", customerID).Order("id").Find(&contacts).Error
	return contacts, err
}

func (h *ContactHandler) find(db *gorm.DB, id int64) (*model.Contact, error) {
	var ct model.Contact
	if err := db.Take(&ct, id).Error; err != nil {
		return nil, apperr.FromDB(err, "contact")
	}
	return &ct, nil
}

// ByCustomer handles GET /contacts/customer/:customer_id.
func (h *ContactHandler) ByCustomer(c *gin.Context) {
	id, ok := pathID(c, h.log, "customer_id")
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

// Create handles POST /contacts.
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	if _, err := findCustomer(db, req.CustomerID); err != nil {
		writeError(c, h.log, err)
		return
	}
	ct := model.Contact{
		CustomerID: req.CustomerID,
		FName:      req.FName,
		LName:      req.LName,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	if err := db.Create(&ct).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "contact"))
		return
	}
	c.JSON(http.StatusCreated, ct)
}

// Get handles GET /contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	ct, err := h.find(h.db.WithContext(c.Request.Context()), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// Update handles PUT/PATCH /contacts/:id. Moving a contact to another
// customer requires that customer to exist.
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateContactRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	ct, err := h.find(db, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if req.CustomerID != nil && *req.CustomerID != ct.CustomerID {
		if _, err := findCustomer(db, *req.CustomerID); err != nil {
			writeError(c, h.log, err)
			return
		}
		ct.CustomerID = *req.CustomerID
	}
	if req.FName != nil {
		ct.FName = *req.FName
	}
	if req.LName != nil {
		ct.LName = req.LName
	}
	if req.Email != nil {
		ct.Email = req.Email
	}
	if req.Phone != nil {
		ct.Phone = req.Phone
	}

	if err := db.Save(ct).Error; err != nil {
		writeError(c, h.log, apperr.FromDB(err, "contact"))
		return
	}
	c.JSON(http.StatusOK, ct)
}

// Delete handles DELETE /contacts/:id. Orders lose the reference.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).Where("contact_id = ?", id).Update("contact_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Contact{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("contact not found")
		}
		return nil
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
