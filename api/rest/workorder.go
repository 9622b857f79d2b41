package rest

import (
	"net/http"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/workorder"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkOrderHandler exposes the order checklists: extra info, inventory and
// bodywork.
type WorkOrderHandler struct {
	svc *workorder.Service
	log *zap.Logger
}

// NewWorkOrderHandler creates a new WorkOrderHandler.
func NewWorkOrderHandler(svc *workorder.Service, log *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc, log: log}
}

type inventoryTypeRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

type inventoryItemRequest struct {
	TypeID int64  `json:"type_id" binding:"required"`
	Name   string `json:"name" binding:"required,max=64"`
}

type bodyworkItemRequest struct {
	Title string `json:"title" binding:"required,max=64"`
}

type inventoryItemQuery struct {
	TypeID int64 `form:"type_id" binding:"omitempty,min=1"`
}

// UpsertExtraInfo handles POST /orders/extra-info.
func (h *WorkOrderHandler) UpsertExtraInfo(c *gin.Context) {
	var req []workorder.ExtraInfoInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	rows, err := h.svc.UpsertExtraInfo(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ExtraInfo handles GET /orders/extra-info/:order_id.
func (h *WorkOrderHandler) ExtraInfo(c *gin.Context) {
	orderID, ok := pathID(c, h.log, "order_id")
	if !ok {
		return
	}
	rows, err := h.svc.ListExtraInfo(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// InventoryTypes handles GET /orders/inventory-types.
func (h *WorkOrderHandler) InventoryTypes(c *gin.Context) {
	rows, err := h.svc.ListInventoryTypes(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CreateInventoryType handles POST /orders/inventory-types.
func (h *WorkOrderHandler) CreateInventoryType(c *gin.Context) {
	var req inventoryTypeRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	row, err := h.svc.CreateInventoryType(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "inventory type"))
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ReorderInventoryTypes handles PUT /orders/inventory-types/reorder.
func (h *WorkOrderHandler) ReorderInventoryTypes(c *gin.Context) {
	var req []workorder.Placement
	if !bindJSON(c, h.log, &req) {
		return
	}
	rows, err := h.svc.ReorderInventoryTypes(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// InventoryItems handles GET /orders/inventory-items[?type_id=].
func (h *WorkOrderHandler) InventoryItems(c *gin.Context) {
	var q inventoryItemQuery
	if !bindQuery(c, h.log, &q) {
		return
	}
	rows, err := h.svc.ListInventoryItems(c.Request.Context(), q.TypeID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CreateInventoryItem handles POST /orders/inventory-items.
func (h *WorkOrderHandler) CreateInventoryItem(c *gin.Context) {
	var req inventoryItemRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	row, err := h.svc.CreateInventoryItem(c.Request.Context(), req.TypeID, req.Name)
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "inventory item"))
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ReorderInventoryItems handles PUT /orders/inventory-items/reorder.
func (h *WorkOrderHandler) ReorderInventoryItems(c *gin.Context) {
	var req []workorder.Placement
	if !bindJSON(c, h.log, &req) {
		return
	}
	rows, err := h.svc.ReorderInventoryItems(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UpsertInventoryData handles POST /orders/inventory-data.
func (h *WorkOrderHandler) UpsertInventoryData(c *gin.Context) {
	var req []workorder.InventoryDataInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	rows, err := h.svc.UpsertInventoryData(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// InventoryData handles GET /orders/inventory-data/:order_id/:inv_type_id.
func (h *WorkOrderHandler) InventoryData(c *gin.Context) {
	orderID, ok := pathID(c, h.log, "order_id")
	if !ok {
		return
	}
	typeID, ok := pathID(c, h.log, "inv_type_id")
	if !ok {
		return
	}
	rows, err := h.svc.ListInventoryData(c.Request.Context(), orderID, typeID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// BodyworkItems handles GET /orders/bodywork-items.
func (h *WorkOrderHandler) BodyworkItems(c *gin.Context) {
	rows, err := h.svc.ListBodyworkItems(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// CreateBodyworkItem handles POST /orders/bodywork-items.
func (h *WorkOrderHandler) CreateBodyworkItem(c *gin.Context) {
	var req bodyworkItemRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	row, err := h.svc.CreateBodyworkItem(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, h.log, apperr.FromDB(err, "bodywork item"))
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ReorderBodyworkItems handles PUT /orders/bodywork-items/reorder.
func (h *WorkOrderHandler) ReorderBodyworkItems(c *gin.Context) {
	var req []workorder.Placement
	if !bindJSON(c, h.log, &req) {
		return
	}
	rows, err := h.svc.ReorderBodyworkItems(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UpsertBodywork handles POST /orders/bodywork.
func (h *WorkOrderHandler) UpsertBodywork(c *gin.Context) {
	var req []workorder.BodyworkDataInput
	if !bindJSON(c, h.log, &req) {
		return
	}
	rows, err := h.svc.UpsertBodyworkData(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Bodywork handles GET /orders/bodywork/:order_id.
func (h *WorkOrderHandler) Bodywork(c *gin.Context) {
	orderID, ok := pathID(c, h.log, "order_id")
	if !ok {
		return
	}
	rows, err := h.svc.ListBodyworkData(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

