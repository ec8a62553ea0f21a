package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
	"github.com/BruksfildServices01/ajo-backend/internal/httpresp"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// --------- Requests ---------

type CategoryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ParentID *uint  `json:"parent_id" binding:"omitempty,min=1"`
}

// --------- Helpers ---------

func (h *CategoryHandler) find(c *gin.Context) (*models.Category, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	var cat models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Parent").
		First(&cat, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "category_not_found", "Category not found.")
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	return &cat, true
}

// checkCategory validates the parent and the (name, parent) uniqueness.
// selfID is zero on create. It writes the response when it returns false.
func (h *CategoryHandler) checkCategory(c *gin.Context, name string, parentID *uint, selfID uint) bool {
	db := h.db.WithContext(c.Request.Context())

	if parentID != nil {
		// Walk up from the new parent; meeting selfID means a cycle.
		seen := map[uint]struct{}{}
		for cur := parentID; cur != nil; {
			if *cur == selfID {
				httperr.Unprocessable(c, "validation_failed", "parent_id", "parent_cycle")
				return false
			}
			if _, ok := seen[*cur]; ok {
				break
			}
			seen[*cur] = struct{}{}

			var ancestor models.Category
			if err := db.Select("id", "parent_id").First(&ancestor, *cur).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					httperr.Unprocessable(c, "validation_failed", "parent_id", "parent_not_found")
					return false
				}
				respondError(c, err)
				return false
			}
			cur = ancestor.ParentID
		}
	}

	q := db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		respondError(c, err)
		return false
	}
	if count > 0 {
		c.JSON(http.StatusConflict, httperr.HTTPError{
			Code:    "name_taken",
			Message: "A category with this name already exists here.",
			Field:   "name",
		})
		return false
	}

	return true
}

// subtree returns id and the ids of every category below it.
func (h *CategoryHandler) subtree(c *gin.Context, id uint) ([]uint, error) {
	db := h.db.WithContext(c.Request.Context())

	all := []uint{id}
	seen := map[uint]struct{}{id: {}}
	frontier := []uint{id}

	for len(frontier) > 0 {
		var children []uint
		if err := db.Model(&models.Category{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			all = append(all, child)
			frontier = append(frontier, child)
		}
	}

	return all, nil
}

// --------- Handlers ---------

func (h *CategoryHandler) List(c *gin.Context) {
	var cats []models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Parent").
		Order("name ASC").
		Find(&cats).Error; err != nil {

		respondError(c, err)
		return
	}

	httpresp.List(c, cats)
}

func (h *CategoryHandler) Show(c *gin.Context) {
	cat, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if !h.checkCategory(c, name, req.ParentID, 0) {
		return
	}

	cat := models.Category{Name: name, ParentID: req.ParentID}
	if err := h.db.WithContext(c.Request.Context()).Omit("Parent").Create(&cat).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cat, ok := h.find(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(req.Name)
	if !h.checkCategory(c, name, req.ParentID, cat.ID) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Category{ID: cat.ID}).
		Updates(map[string]any{"name": name, "parent_id": req.ParentID}).Error; err != nil {

		respondError(c, err)
		return
	}

	cat.Name = name
	cat.ParentID = req.ParentID
	cat.Parent = nil
	httpresp.OK(c, cat)
}

// Delete refuses while menus still reference the category or any category
// below it, since children are removed with their parent.
func (h *CategoryHandler) Delete(c *gin.Context) {
	cat, ok := h.find(c)
	if !ok {
		return
	}

	ids, err := h.subtree(c, cat.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var inUse int64
	if err := db.Model(&models.Menu{}).Where("category_id IN ?", ids).Count(&inUse).Error; err != nil {
		respondError(c, err)
		return
	}
	if inUse > 0 {
		httperr.BadRequest(c, "category_in_use", "Category is still used by menus.")
		return
	}

	if err := db.Delete(&models.Category{}, cat.ID).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted."})
}
