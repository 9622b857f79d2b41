package rest

import (
	"net/http"
	"time"

	"github.com/autoerp/server/cache"
	"github.com/autoerp/server/model"
	"github.com/autoerp/server/workorder"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	DB         *gorm.DB
	Cache      cache.Cache // optional
	Log        *zap.Logger
	LookupTTL  time.Duration
	BcryptCost int
}

type nameRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

type typeRequest struct {
	Type string `json:"type" binding:"required,max=32"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,max=32"`
}

type colorRequest struct {
	Color string `json:"color" binding:"required,max=32"`
}

type makeRequest struct {
	Make string `json:"make" binding:"required,max=64"`
}

type modelRequest struct {
	Model  string `json:"model" binding:"required,max=64"`
	MakeID int64  `json:"make_id" binding:"required"`
}

type modelListQuery struct {
	MakeID int64 `form:"make_id" binding:"omitempty,min=1"`
}

type priorityRequest struct {
	Priority string `json:"priority" binding:"required,max=32"`
}

type extraItemRequest struct {
	Title       string  `json:"title" binding:"required,max=128"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required,max=128"`
}

// Register mounts every resource under r.
func Register(r gin.IRouter, d Deps) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	db := d.DB

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	lookups := NewLookupHandler(db, d.Cache, d.LookupTTL, log)

	r.GET("/audit", NewAuditHandler(db, log).List)

	auth := NewAuthHandler(db, log)
	r.POST("/auth/login", auth.Login)

	users := NewUserHandler(db, log, d.BcryptCost)
	ug := r.Group("/users")
	ug.GET("", users.List)
	ug.POST("", users.Create)
	ug.GET("/:id", users.Get)
	ug.PUT("/:id", users.Update)
	ug.PATCH("/:id", users.Update)
	ug.DELETE("/:id", users.Delete)

	perms := NewPermissionHandler(db, log)
	r.GET("/permissions", perms.List)
	r.POST("/permissions", perms.Upsert)

	customers := NewCustomerHandler(db, log)
	cg := r.Group("/customers")
	cg.GET("", customers.List)
	cg.GET("/search", customers.Search)
	cg.POST("", customers.Create)
	cg.GET("/:id", customers.Get)
	cg.PUT("/:id", customers.Update)
	cg.PATCH("/:id", customers.Update)
	cg.DELETE("/:id", customers.Delete)
	cg.GET("/:id/contacts", customers.Contacts)
	cg.GET("/:id/vehicles", customers.Vehicles)

	contacts := NewContactHandler(db, log)
	ctg := r.Group("/contacts")
	ctg.GET("/customer/:customer_id", contacts.ByCustomer)
	ctg.POST("", contacts.Create)
	ctg.GET("/:id", contacts.Get)
	ctg.PUT("/:id", contacts.Update)
	ctg.PATCH("/:id", contacts.Update)
	ctg.DELETE("/:id", contacts.Delete)

	employees := NewEmployeeHandler(db, log)
	eg := r.Group("/employees")
	eg.GET("", employees.List)
	eg.GET("/search", employees.Search)
	eg.GET("/position/:position_id", employees.ByPosition)
	eg.GET("/positions", listLookup[model.Position](lookups, "positions", nil))
	eg.POST("/positions", createLookup(lookups, "positions", "position", func(req *nameRequest) *model.Position {
		return &model.Position{Name: req.Name}
	}))
	eg.POST("", employees.Create)
	eg.GET("/:id", employees.Get)
	eg.PUT("/:id", employees.Update)
	eg.PATCH("/:id", employees.Update)
	eg.DELETE("/:id", employees.Delete)

	vehicles := NewVehicleHandler(db, log)
	vg := r.Group("/vehicles")
	vg.GET("", vehicles.List)
	vg.GET("/customer/:customer_id", vehicles.ByCustomer)
	registerVehicleLookups(vg, lookups)
	vg.POST("", vehicles.Create)
	vg.GET("/:id", vehicles.Get)
	vg.PUT("/:id", vehicles.Update)
	vg.PATCH("/:id", vehicles.Update)
	vg.DELETE("/:id", vehicles.Delete)

	orders := NewOrderHandler(db, log)
	work := NewWorkOrderHandler(workorder.NewService(db), log)
	og := r.Group("/orders")
	registerOrderLookups(og, lookups)
	og.POST("/extra-info", work.UpsertExtraInfo)
	og.GET("/extra-info/:order_id", work.ExtraInfo)
	og.GET("/inventory-types", work.InventoryTypes)
	og.POST("/inventory-types", work.CreateInventoryType)
	og.PUT("/inventory-types/reorder", work.ReorderInventoryTypes)
	og.GET("/inventory-items", work.InventoryItems)
	og.POST("/inventory-items", work.CreateInventoryItem)
	og.PUT("/inventory-items/reorder", work.ReorderInventoryItems)
	og.POST("/inventory-data", work.UpsertInventoryData)
	og.GET("/inventory-data/:order_id/:inv_type_id", work.InventoryData)
	og.GET("/bodywork-items", work.BodyworkItems)
	og.POST("/bodywork-items", work.CreateBodyworkItem)
	og.PUT("/bodywork-items/reorder", work.ReorderBodyworkItems)
	og.POST("/bodywork", work.UpsertBodywork)
	og.GET("/bodywork/:order_id", work.Bodywork)
	og.GET("", orders.List)
	og.POST("", orders.Create)
	og.GET("/code/:code", orders.ByCode)
	og.GET("/:id", orders.Get)
	og.PUT("/:id", orders.Update)
	og.PATCH("/:id", orders.Update)
	og.DELETE("/:id", orders.Delete)

	appointments := NewAppointmentHandler(db, log)
	ag := r.Group("/appointments")
	ag.GET("", appointments.List)
	ag.POST("", appointments.Create)
	ag.GET("/reasons", listLookup[model.AppointmentReason](lookups, "appointment_reasons", nil))
	ag.POST("/reasons", createLookup(lookups, "appointment_reasons", "appointment reason", func(req *reasonRequest) *model.AppointmentReason {
		return &model.AppointmentReason{Reason: req.Reason}
	}))
	ag.GET("/statuses", listLookup[model.AppointmentStatus](lookups, "appointment_statuses", nil))
	ag.POST("/statuses", createLookup(lookups, "appointment_statuses", "appointment status", func(req *statusRequest) *model.AppointmentStatus {
		return &model.AppointmentStatus{Status: req.Status}
	}))
	ag.GET("/:id", appointments.Get)
	ag.PUT("/:id", appointments.Update)
	ag.PATCH("/:id", appointments.Update)
	ag.DELETE("/:id", appointments.Delete)
}

func registerVehicleLookups(g *gin.RouterGroup, h *LookupHandler) {
	g.GET("/colors", listLookup[model.Color](h, "colors", nil))
	g.POST("/colors", createLookup(h, "colors", "color", func(req *colorRequest) *model.Color {
		return &model.Color{Color: req.Color}
	}))
	g.GET("/motors", listLookup[model.Motor](h, "motors", nil))
	g.POST("/motors", createLookup(h, "motors", "motor", func(req *typeRequest) *model.Motor {
		return &model.Motor{Type: req.Type}
	}))
	g.GET("/types", listLookup[model.VehicleType](h, "vehicle_types", nil))
	g.POST("/types", createLookup(h, "vehicle_types", "vehicle type", func(req *typeRequest) *model.VehicleType {
		return &model.VehicleType{Type: req.Type}
	}))
	g.GET("/makes", listLookup[model.Make](h, "makes", nil))
	g.POST("/makes", createLookup(h, "makes", "make", func(req *makeRequest) *model.Make {
		return &model.Make{Make: req.Make}
	}))
	g.GET("/transmissions", listLookup[model.Transmission](h, "transmissions", nil))
	g.POST("/transmissions", createLookup(h, "transmissions", "transmission", func(req *typeRequest) *model.Transmission {
		return &model.Transmission{Type: req.Type}
	}))

	allModels := listLookup[model.VehicleModel](h, "vehicle_models", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Make")
	})
	g.GET("/models", func(c *gin.Context) {
		var q modelListQuery
		if !bindQuery(c, h.log, &q) {
			return
		}
		if q.MakeID == 0 {
			allModels(c)
			return
		}
		rows := []model.VehicleModel{}
		err := h.db.WithContext(c.Request.Context()).Preload("Make").
			Where("make_id = ?", q.MakeID).Order("id").Find(&rows).Error
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})
	g.POST("/models", createLookup(h, "vehicle_models", "vehicle model", func(req *modelRequest) *model.VehicleModel {
		return &model.VehicleModel{Model: req.Model, MakeID: req.MakeID}
	}))
}

func registerOrderLookups(g *gin.RouterGroup, h *LookupHandler) {
	g.GET("/adm-statuses", listLookup[model.AdmStatus](h, "adm_statuses", nil))
	g.POST("/adm-statuses", createLookup(h, "adm_statuses", "admin status", func(req *statusRequest) *model.AdmStatus {
		return &model.AdmStatus{Status: req.Status}
	}))
	g.GET("/op-statuses", listLookup[model.OpStatus](h, "op_statuses", nil))
	g.POST("/op-statuses", createLookup(h, "op_statuses", "operational status", func(req *statusRequest) *model.OpStatus {
		return &model.OpStatus{Status: req.Status}
	}))
	g.GET("/priorities", listLookup[model.Priority](h, "priorities", nil))
	g.POST("/priorities", createLookup(h, "priorities", "priority", func(req *priorityRequest) *model.Priority {
		return &model.Priority{Priority: req.Priority}
	}))
	g.GET("/extra-items", listLookup[model.ExtraItem](h, "extra_items", nil))
	g.POST("/extra-items", createLookup(h, "extra_items", "extra item", func(req *extraItemRequest) *model.ExtraItem {
		return &model.ExtraItem{Title: req.Title, Description: req.Description}
	}))
}
