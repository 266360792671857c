package handler

import (
	"net/http"

	"medbase/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordHandler is the caller boundary for generic records: an entity code
// plus a form payload in, a persisted record or a field-error batch out.
type RecordHandler struct {
	records  *service.RecordService
	metadata *service.MetadataService
}

func NewRecordHandler(records *service.RecordService, metadata *service.MetadataService) *RecordHandler {
	return &RecordHandler{records: records, metadata: metadata}
}

// List returns the registry for an entity code: its definition (for form
// rendering) and records newest first.
func (h *RecordHandler) List(c *gin.Context) {
	entityCode := c.Param("entityCode")
	def, err := h.metadata.GetDefinitionByCode(entityCode)
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := h.records.ListByEntityCode(entityCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"definition": def, "records": records})
}

func (h *RecordHandler) Create(c *gin.Context) {
	entityCode := c.Param("entityCode")
	record, v, err := h.records.Save(entityCode, nil, parseSubmission(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, err := h.records.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Update(c *gin.Context) {
	entityCode := c.Param("entityCode")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, v, err := h.records.Save(entityCode, &id, parseSubmission(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.records.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
