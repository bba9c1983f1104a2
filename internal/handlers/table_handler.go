package handlers

import (
	"net/http"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableService services.TableService
	log          *logger.Logger
}

func NewTableHandler(tableService services.TableService, log *logger.Logger) *TableHandler {
	return &TableHandler{tableService: tableService, log: log}
}

type tableRequest struct {
	Number      *int     `json:"number" binding:"required"`
	PosX        *float64 `json:"pos_x" binding:"required"`
	PosY        *float64 `json:"pos_y" binding:"required"`
	Status      string   `json:"status"`
	IsAvailable *bool    `json:"is_available"`
}

type tableUpdateRequest struct {
	Number      *int     `json:"number"`
	PosX        *float64 `json:"pos_x"`
	PosY        *float64 `json:"pos_y"`
	Status      *string  `json:"status"`
	IsAvailable *bool    `json:"is_available"`
}

type tableReplaceRequest struct {
	Number      *int     `json:"number" binding:"required"`
	PosX        *float64 `json:"pos_x" binding:"required"`
	PosY        *float64 `json:"pos_y" binding:"required"`
	Status      string   `json:"status" binding:"required"`
	IsAvailable *bool    `json:"is_available" binding:"required"`
}

func (h *TableHandler) GetTables(c *gin.Context) {
	var filter repository.TableFilter
	if raw := queryString(c, "status"); raw != nil {
		st, ok := models.ParseTableStatus(*raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown table status " + *raw})
			return
		}
		filter.Status = &st
	}
	available, ok := queryBool(c, "is_available")
	if !ok {
		return
	}
	filter.IsAvailable = available

	tables, err := h.tableService.ListTables(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, "tables_list", err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) GetTablesByStatus(c *gin.Context) {
	tables, err := h.tableService.ListTablesByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, h.log, "tables_by_status", err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) GetTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "tables_get", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	table, err := h.tableService.CreateTable(c.Request.Context(), services.TableInput{
		Number: *req.Number, PosX: *req.PosX, PosY: *req.PosY, Status: req.Status, IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "tables_create", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req tableUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	table, err := h.tableService.UpdateTable(c.Request.Context(), id, services.TableUpdate{
		Number: req.Number, PosX: req.PosX, PosY: req.PosY, Status: req.Status, IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "tables_update", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) ReplaceTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req tableReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	table, err := h.tableService.ReplaceTable(c.Request.Context(), id, services.TableInput{
		Number: *req.Number, PosX: *req.PosX, PosY: *req.PosY, Status: req.Status, IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "tables_replace", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "tables_delete", err)
		return
	}
	message(c, "Table deleted")
}
