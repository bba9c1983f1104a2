package handlers

import (
	"net/http"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/repository"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MenuHandler struct {
	menuService services.MenuService
	log         *logger.Logger
}

func NewMenuHandler(menuService services.MenuService, log *logger.Logger) *MenuHandler {
	return &MenuHandler{menuService: menuService, log: log}
}

type menuItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Photo       string           `json:"photo"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    *uint            `json:"category"`
	IsAvailable *bool            `json:"is_available"`
}

type menuItemUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Photo       *string          `json:"photo"`
	Price       *decimal.Decimal `json:"price"`
	Category    *uint            `json:"category"`
	IsAvailable *bool            `json:"is_available"`
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *MenuHandler) GetMenu(c *gin.Context) {
	categoryID, ok := queryUint(c, "category_id")
	if !ok {
		return
	}
	available, ok := queryBool(c, "is_available")
	if !ok {
		return
	}
	items, err := h.menuService.ListMenuItems(c.Request.Context(), repository.MenuFilter{
		CategoryID: categoryID, IsAvailable: available,
	})
	if err != nil {
		respondError(c, h.log, "menu_list", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := h.menuService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "menu_get", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	item, err := h.menuService.CreateMenuItem(c.Request.Context(), services.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       *req.Price,
		CategoryID:  req.Category,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "menu_create", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req menuItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), id, services.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       req.Price,
		CategoryID:  req.Category,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, "menu_update", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteMenuItem(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "menu_delete", err)
		return
	}
	message(c, "Menu item deleted")
}

func (h *MenuHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "categories_list", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MenuHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	category, err := h.menuService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "categories_get", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	category, err := h.menuService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.log, "categories_create", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	category, err := h.menuService.RenameCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.log, "categories_update", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "categories_delete", err)
		return
	}
	message(c, "Category deleted")
}
