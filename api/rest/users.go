package rest

import (
	"net/http"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserHandler handles login account endpoints.
type UserHandler struct {
	db         *gorm.DB
	log        *zap.Logger
	bcryptCost int
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB, log *zap.Logger, bcryptCost int) *UserHandler {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserHandler{db: db, log: log, bcryptCost: bcryptCost}
}

type createUserRequest struct {
	Username    string   `json:"username" binding:"required,max=64"`
	Password    string   `json:"password" binding:"required,min=4,max=72"`
	IsAdmin     bool     `json:"is_admin"`
	IsEmployee  bool     `json:"is_employee"`
	IsActive    *bool    `json:"is_active"`
	Permissions []string `json:"permissions" binding:"dive,required,max=80"`
}

type updateUserRequest struct {
	Username    *string   `json:"username" binding:"omitempty,max=64"`
	Password    *string   `json:"password" binding:"omitempty,min=4,max=72"`
	IsAdmin     *bool     `json:"is_admin"`
	IsEmployee  *bool     `json:"is_employee"`
	IsActive    *bool     `json:"is_active"`
	Permissions *[]string `json:"permissions" binding:"omitempty,dive,required,max=80"`
}

// UpsertPermissions returns the permissions with the given names, creating
// the ones that do not exist yet.
func UpsertPermissions(tx *gorm.DB, names []string) ([]model.Permission, error) {
	perms := []model.Permission{}
	if len(names) == 0 {
		return perms, nil
	}
	seen := make(map[string]bool, len(names))
	fresh := make([]model.Permission, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			fresh = append(fresh, model.Permission{Name: n})
		}
	}
	err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&fresh).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("name IN ?", names).Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// CreateUser hashes the password and stores the user with its permissions.
func CreateUser(tx *gorm.DB, user *model.User, password string, permissions []string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return tx.Transaction(func(tx *gorm.DB) error {
		perms, err := UpsertPermissions(tx, permissions)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		if len(perms) > 0 {
			if err := tx.Model(user).Association("Permissions").Replace(perms); err != nil {
				return err
			}
		}
		user.Permissions = perms
		return nil
	})
}

func (h *UserHandler) find(c *gin.Context, id int64) (*model.User, error) {
	var user model.User
	err := h.db.WithContext(c.Request.Context()).Preload("Permissions").Take(&user, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return &user, nil
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users := []model.User{}
	if err := h.db.WithContext(c.Request.Context()).Preload("Permissions").Order("id").Find(&users).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	user := model.User{
		Username:   req.Username,
		IsAdmin:    req.IsAdmin,
		IsEmployee: req.IsEmployee,
		IsActive:   req.IsActive == nil || *req.IsActive,
	}
	err := CreateUser(h.db.WithContext(c.Request.Context()), &user, req.Password, req.Permissions, h.bcryptCost)
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "user"))
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	user, err := h.find(c, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PUT/PATCH /users/:id. Permissions, when present, replace
// the user's current set.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	user, err := h.find(c, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsEmployee != nil {
		user.IsEmployee = *req.IsEmployee
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), h.bcryptCost)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		user.Password = string(hash)
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		if req.Permissions == nil {
			return nil
		}
		perms, err := UpsertPermissions(tx, *req.Permissions)
		if err != nil {
			return err
		}
		if err := tx.Model(user).Association("Permissions").Replace(perms); err != nil {
			return err
		}
		user.Permissions = perms
		return nil
	})
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "user"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.log, "id")
	if !ok {
		return
	}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		user := model.User{ID: id}
		res := tx.Select("Permissions").Delete(&user)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user not found")
		}
		return nil
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
