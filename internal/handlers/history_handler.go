package handlers

import (
	"net/http"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyService services.HistoryService
	log            *logger.Logger
}

func NewHistoryHandler(historyService services.HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, log: log}
}

type historyRequest struct {
	NewStatus string `json:"new_status" binding:"required"`
	OrderID   *uint  `json:"order_id"`
	PlateID   uint   `json:"plate_id" binding:"required"`
	ChangeBy  *uint  `json:"change_by"`
}

type historyUpdateRequest struct {
	NewStatus *string `json:"new_status"`
	OrderID   *uint   `json:"order_id"`
	PlateID   *uint   `json:"plate_id"`
	ChangeBy  *uint   `json:"change_by"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	q := services.HistoryQuery{
		NewStatus: queryString(c, "new_status"),
	}
	if v := queryString(c, "start_date"); v != nil {
		q.StartDate = *v
	}
	if v := queryString(c, "end_date"); v != nil {
		q.EndDate = *v
	}
	var ok bool
	if q.PlateID, ok = queryUint(c, "plate_id"); !ok {
		return
	}
	if q.OrderID, ok = queryUint(c, "order_id"); !ok {
		return
	}
	if q.ChangeBy, ok = queryUint(c, "change_by"); !ok {
		return
	}
	h.list(c, q)
}

func (h *HistoryHandler) GetByPlate(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.list(c, services.HistoryQuery{PlateID: &id})
	}
}

func (h *HistoryHandler) GetByOrder(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.list(c, services.HistoryQuery{OrderID: &id})
	}
}

func (h *HistoryHandler) GetByUser(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.list(c, services.HistoryQuery{ChangeBy: &id})
	}
}

func (h *HistoryHandler) list(c *gin.Context, q services.HistoryQuery) {
	entries, err := h.historyService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, "history_list", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *HistoryHandler) GetEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entry, err := h.historyService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "history_get", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *HistoryHandler) GetLatestForPlate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entry, err := h.historyService.LatestForPlate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "history_latest", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *HistoryHandler) CreateEntry(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	entry, err := h.historyService.Create(c.Request.Context(), actor(c), services.HistoryInput{
		NewStatus: req.NewStatus, OrderID: req.OrderID, PlateID: req.PlateID, ChangeBy: req.ChangeBy,
	})
	if err != nil {
		respondError(c, h.log, "history_create", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *HistoryHandler) UpdateEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req historyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	entry, err := h.historyService.Update(c.Request.Context(), id, services.HistoryUpdate{
		NewStatus: req.NewStatus, OrderID: req.OrderID, PlateID: req.PlateID, ChangeBy: req.ChangeBy,
	})
	if err != nil {
		respondError(c, h.log, "history_update", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *HistoryHandler) DeleteEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.historyService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "history_delete", err)
		return
	}
	message(c, "History entry deleted")
}
