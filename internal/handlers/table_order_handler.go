package handlers

import (
	"net/http"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

type TableOrderHandler struct {
	linkService services.TableOrderService
	log         *logger.Logger
}

func NewTableOrderHandler(linkService services.TableOrderService, log *logger.Logger) *TableOrderHandler {
	return &TableOrderHandler{linkService: linkService, log: log}
}

type linkRequest struct {
	Order uint `json:"order" binding:"required"`
	Table uint `json:"table" binding:"required"`
}

type linkUpdateRequest struct {
	Order *uint `json:"order"`
	Table *uint `json:"table"`
}

func (h *TableOrderHandler) GetLinks(c *gin.Context) {
	orderID, ok := queryUint(c, "order_id")
	if !ok {
		return
	}
	tableID, ok := queryUint(c, "table_id")
	if !ok {
		return
	}
	h.list(c, orderID, tableID)
}

func (h *TableOrderHandler) GetByOrder(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.list(c, &id, nil)
	}
}

func (h *TableOrderHandler) GetByTable(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.list(c, nil, &id)
	}
}

func (h *TableOrderHandler) list(c *gin.Context, orderID, tableID *uint) {
	links, err := h.linkService.ListLinks(c.Request.Context(), orderID, tableID)
	if err != nil {
		respondError(c, h.log, "table_links_list", err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *TableOrderHandler) CreateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	link, err := h.linkService.CreateLink(c.Request.Context(), req.Order, req.Table)
	if err != nil {
		respondError(c, h.log, "table_links_create", err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *TableOrderHandler) UpdateLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req linkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	link, err := h.linkService.UpdateLink(c.Request.Context(), id, req.Order, req.Table)
	if err != nil {
		respondError(c, h.log, "table_links_update", err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *TableOrderHandler) DeleteLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.linkService.DeleteLink(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "table_links_delete", err)
		return
	}
	message(c, "Table link deleted")
}
