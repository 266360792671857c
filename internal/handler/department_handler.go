package handler

import (
	"net/http"

	"medbase/internal/domain"
	"medbase/internal/models"
	"medbase/internal/repository"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DepartmentHandler struct {
	departments *repository.DepartmentRepository
	records     *service.RecordService
}

func NewDepartmentHandler(departments *repository.DepartmentRepository, records *service.RecordService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments, records: records}
}

func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.departments.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	form := parseSubmission(c)
	name := formValue(form, "name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	props, v, err := h.records.BuildProperties(domain.EntityDepartment, nil, form)
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	dep := &models.Department{
		Name:       name,
		ManagerID:  optionalID(form, "manager_id"),
		ParentID:   optionalID(form, "parent_id"),
		Properties: props,
	}
	if err := h.departments.Create(dep); err != nil {
		respondError(c, err)
		return
	}
	if rewritten, changed := h.records.FinalizeProperties(props, domain.EntityDepartment, dep.ID); changed {
		dep.Properties = rewritten
		if err := h.departments.Update(dep); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, dep)
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	dep, err := h.departments.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	form := parseSubmission(c)
	props, v, err := h.records.BuildProperties(domain.EntityDepartment, dep.Properties, form)
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	props, _ = h.records.FinalizeProperties(props, domain.EntityDepartment, dep.ID)

	if name := formValue(form, "name"); name != "" {
		dep.Name = name
	}
	dep.ManagerID = optionalID(form, "manager_id")
	dep.ParentID = optionalID(form, "parent_id")
	dep.Properties = props
	dep.Manager = nil
	dep.Parent = nil
	if err := h.departments.Update(dep); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dep)
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.departments.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func optionalID(form service.Form, key string) *uuid.UUID {
	raw := formValue(form, key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
