package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/ajo-backend/internal/dto"
	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type MenuHandler struct {
	db *gorm.DB
}

func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// --------- Requests ---------

type CreateMenuRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description"`
	CategoryID   uint   `json:"category_id" binding:"required"`
	Price        *int64 `json:"price" binding:"required,min=0"`
	Status       string `json:"status" binding:"omitempty,menu_status"`
	Image        string `json:"image" binding:"omitempty,max=500"`
	IsBestSeller bool   `json:"is_best_seller"`
}

type UpdateMenuRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description  *string `json:"description,omitempty"`
	CategoryID   *uint   `json:"category_id,omitempty" binding:"omitempty,min=1"`
	Price        *int64  `json:"price,omitempty" binding:"omitempty,min=0"`
	Status       *string `json:"status,omitempty" binding:"omitempty,menu_status"`
	Image        *string `json:"image,omitempty" binding:"omitempty,max=500"`
	IsBestSeller *bool   `json:"is_best_seller,omitempty"`
}

type UpdateMenuStatusRequest struct {
	Status string `json:"status" binding:"required,menu_status"`
}

// --------- Helpers ---------

func toMenuListDTO(m *models.Menu) dto.MenuListDTO {
	out := dto.MenuListDTO{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Status:       string(m.Status),
		Image:        m.Image,
		IsBestSeller: m.IsBestSeller,
		CategoryID:   m.CategoryID,
		CategoryName: m.Category.Name,
	}
	if m.Category.Parent != nil {
		out.ParentCategory = m.Category.Parent.Name
	}
	return out
}

func (h *MenuHandler) categoryExists(c *gin.Context, id uint) (bool, error) {
	var count int64
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (h *MenuHandler) find(c *gin.Context) (*models.Menu, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	var menu models.Menu
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Category.Parent").
		First(&menu, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "menu_not_found", "Menu not found.")
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	return &menu, true
}

// --------- Handlers ---------

// List is public. It filters by category_id, status and a name search.
func (h *MenuHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Category.Parent")

	if categoryID := strings.TrimSpace(c.Query("category_id")); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var menus []models.Menu
	if err := q.Order("id ASC").Find(&menus).Error; err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.MenuListDTO, 0, len(menus))
	for i := range menus {
		out = append(out, toMenuListDTO(&menus[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

func (h *MenuHandler) Show(c *gin.Context) {
	menu, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toMenuListDTO(menu))
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	exists, err := h.categoryExists(c, req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		httperr.Unprocessable(c, "validation_failed", "category_id", "category_not_found")
		return
	}

	status := models.MenuStatus(req.Status)
	if status == "" {
		status = models.MenuStatusInStock
	}

	menu := models.Menu{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Price:        *req.Price,
		Status:       status,
		Image:        req.Image,
		IsBestSeller: req.IsBestSeller,
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Category").Create(&menu).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, menu)
}

func (h *MenuHandler) Update(c *gin.Context) {
	var req UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	menu, ok := h.find(c)
	if !ok {
		return
	}

	if req.CategoryID != nil {
		exists, err := h.categoryExists(c, *req.CategoryID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !exists {
			httperr.Unprocessable(c, "validation_failed", "category_id", "category_not_found")
			return
		}
	}

	cols := map[string]any{}
	if req.Name != nil {
		cols["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		cols["description"] = *req.Description
	}
	if req.CategoryID != nil {
		cols["category_id"] = *req.CategoryID
	}
	if req.Price != nil {
		cols["price"] = *req.Price
	}
	if req.Status != nil {
		cols["status"] = *req.Status
	}
	if req.Image != nil {
		cols["image"] = *req.Image
	}
	if req.IsBestSeller != nil {
		cols["is_best_seller"] = *req.IsBestSeller
	}

	if len(cols) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.Menu{ID: menu.ID}).
			Updates(cols).Error; err != nil {

			respondError(c, err)
			return
		}
	}

	h.Show(c)
}

func (h *MenuHandler) UpdateStatus(c *gin.Context) {
	var req UpdateMenuStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	menu, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Menu{ID: menu.ID}).
		Update("status", req.Status).Error; err != nil {

		respondError(c, err)
		return
	}

	menu.Status = models.MenuStatus(req.Status)
	c.JSON(http.StatusOK, toMenuListDTO(menu))
}

func (h *MenuHandler) Delete(c *gin.Context) {
	menu, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Menu{}, menu.ID).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted."})
}
