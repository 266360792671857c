package handler

import (
	"net/http"

	"medbase/internal/domain"
	"medbase/internal/models"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefinitionHandler exposes the entity constructor: definitions, their field
// catalogs and categories.
type DefinitionHandler struct {
	metadata *service.MetadataService
}

func NewDefinitionHandler(metadata *service.MetadataService) *DefinitionHandler {
	return &DefinitionHandler{metadata: metadata}
}

func (h *DefinitionHandler) List(c *gin.Context) {
	defs, err := h.metadata.ListDefinitions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"definitions": defs})
}

func (h *DefinitionHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		EntityCode  string `json:"entity_code" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		CategoryID  string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def := &models.EntityDefinition{
		Name:        req.Name,
		EntityCode:  req.EntityCode,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if req.CategoryID != "" {
		catID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		def.CategoryID = &catID
	}
	if err := h.metadata.CreateDefinition(def); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

func (h *DefinitionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	def, err := h.metadata.GetDefinition(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// Update renames or re-files a definition; the entity code never changes.
func (h *DefinitionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		CategoryID  string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		catID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryID = &catID
	}
	def, err := h.metadata.UpdateDefinition(id, req.Name, req.Description, req.Icon, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *DefinitionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.metadata.DeleteDefinition(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *DefinitionHandler) AddField(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Label      string `json:"label"`
		SystemName string `json:"system_name" binding:"required"`
		DataType   string `json:"data_type"`
		IsRequired bool   `json:"is_required"`
		IsArray    bool   `json:"is_array"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	field, err := h.metadata.AddField(id, req.Label, req.SystemName,
		domain.FieldDataType(req.DataType), req.IsRequired, req.IsArray)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

func (h *DefinitionHandler) DeleteField(c *gin.Context) {
	fieldID, ok := parseID(c, "fieldId")
	if !ok {
		return
	}
	definitionID, err := h.metadata.RemoveField(fieldID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "definition_id": definitionID})
}

// Compact strips property keys orphaned by field deletions from every
// record of the definition's entity code.
func (h *DefinitionHandler) Compact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	def, err := h.metadata.GetDefinition(id)
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := h.metadata.CompactProperties(def.EntityCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compacted": n})
}

func (h *DefinitionHandler) ListCategories(c *gin.Context) {
	categories, err := h.metadata.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *DefinitionHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Icon      string `json:"icon"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := &models.Category{Name: req.Name, Icon: req.Icon, SortOrder: req.SortOrder}
	if cat.Icon == "" {
		cat.Icon = "folder"
	}
	if err := h.metadata.CreateCategory(cat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}
