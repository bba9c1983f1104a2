package handlers

import (
	"net/http"
	"time"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orderService services.OrderService
	log          *logger.Logger
}

func NewOrderHandler(orderService services.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, log: log}
}

type plateRequest struct {
	PlateID       uint             `json:"plate_id" binding:"required"`
	Count         *int             `json:"count"`
	Comment       string           `json:"comment"`
	CookingStatus string           `json:"cooking_status"`
	Price         *decimal.Decimal `json:"price"`
}

func (r plateRequest) input() services.PlateInput {
	return services.PlateInput{
		MenuItemID:    r.PlateID,
		Count:         r.Count,
		Comment:       r.Comment,
		CookingStatus: r.CookingStatus,
		Price:         r.Price,
	}
}

type createOrderRequest struct {
	Waiter    *uint          `json:"waiter"`
	Status    string         `json:"status"`
	TimeStart *time.Time     `json:"timestart"`
	Tables    []uint         `json:"tables"`
	Plates    []plateRequest `json:"plates" binding:"dive"`
}

type updateOrderRequest struct {
	Status  *string    `json:"status"`
	EndTime *time.Time `json:"endtime"`
}

type updatePlateRequest struct {
	Count         *int             `json:"count"`
	Comment       *string          `json:"comment"`
	CookingStatus *string          `json:"cooking_status"`
	Price         *decimal.Decimal `json:"price"`
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filter repository.OrderFilter
	if raw := queryString(c, "status"); raw != nil {
		st, ok := models.ParseOrderStatus(*raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown order status " + *raw})
			return
		}
		filter.Status = &st
	}
	waiterID, ok := queryUint(c, "waiter_id")
	if !ok {
		return
	}
	filter.WaiterID = waiterID
	h.list(c, filter)
}

func (h *OrderHandler) GetActiveOrders(c *gin.Context) {
	active := models.OrderActive
	h.list(c, repository.OrderFilter{Status: &active})
}

func (h *OrderHandler) list(c *gin.Context, filter repository.OrderFilter) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, "orders_list", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "orders_get", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	plates := make([]services.PlateInput, len(req.Plates))
	for i, p := range req.Plates {
		plates[i] = p.input()
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), actor(c), services.OrderInput{
		WaiterID:  req.Waiter,
		Status:    req.Status,
		TimeStart: req.TimeStart,
		TableIDs:  req.Tables,
		Plates:    plates,
	})
	if err != nil {
		respondError(c, h.log, "orders_create", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, services.OrderUpdate{
		Status: req.Status, EndTime: req.EndTime,
	})
	if err != nil {
		respondError(c, h.log, "orders_update", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.orderService.CompleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "orders_complete", err)
		return
	}
	message(c, "Order completed")
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.orderService.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "orders_cancel", err)
		return
	}
	message(c, "Order cancelled")
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "orders_delete", err)
		return
	}
	message(c, "Order deleted")
}

func (h *OrderHandler) AddPlate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req plateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	plate, err := h.orderService.AddPlate(c.Request.Context(), actor(c), id, req.input())
	if err != nil {
		respondError(c, h.log, "orders_add_plate", err)
		return
	}
	c.JSON(http.StatusOK, plate)
}

func (h *OrderHandler) UpdatePlate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updatePlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	plate, err := h.orderService.UpdatePlate(c.Request.Context(), actor(c), id, services.PlateUpdate{
		Count: req.Count, Comment: req.Comment, CookingStatus: req.CookingStatus, Price: req.Price,
	})
	if err != nil {
		respondError(c, h.log, "orders_update_plate", err)
		return
	}
	c.JSON(http.StatusOK, plate)
}

func (h *OrderHandler) RemovePlate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.RemovePlate(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "orders_remove_plate", err)
		return
	}
	message(c, "Plate removed from order")
}

func (h *OrderHandler) SetPlateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	plate, err := h.orderService.SetPlateStatus(c.Request.Context(), actor(c), id, c.Param("status"))
	if err != nil {
		respondError(c, h.log, "orders_plate_status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Plate status changed to " + string(plate.CookingStatus),
		"plate":   plate,
	})
}
