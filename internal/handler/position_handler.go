package handler

import (
	"net/http"

	"medbase/internal/domain"
	"medbase/internal/models"
	"medbase/internal/repository"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
)

type PositionHandler struct {
	positions *repository.PositionRepository
	records   *service.RecordService
}

func NewPositionHandler(positions *repository.PositionRepository, records *service.RecordService) *PositionHandler {
	return &PositionHandler{positions: positions, records: records}
}

func (h *PositionHandler) List(c *gin.Context) {
	positions, err := h.positions.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

func (h *PositionHandler) Create(c *gin.Context) {
	form := parseSubmission(c)
	name := formValue(form, "name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	props, v, err := h.records.BuildProperties(domain.EntityPosition, nil, form)
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	pos := &models.Position{Name: name, Properties: props}
	if err := h.positions.Create(pos); err != nil {
		respondError(c, err)
		return
	}
	if rewritten, changed := h.records.FinalizeProperties(props, domain.EntityPosition, pos.ID); changed {
		pos.Properties = rewritten
		if err := h.positions.Update(pos); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, pos)
}

func (h *PositionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pos, err := h.positions.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	form := parseSubmission(c)
	props, v, err := h.records.BuildProperties(domain.EntityPosition, pos.Properties, form)
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	props, _ = h.records.FinalizeProperties(props, domain.EntityPosition, pos.ID)

	if name := formValue(form, "name"); name != "" {
		pos.Name = name
	}
	pos.Properties = props
	if err := h.positions.Update(pos); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *PositionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.positions.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
