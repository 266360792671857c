package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"medbase/internal/dynamic"
	"medbase/internal/repository"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// parseSubmission accepts both multipart (with file attachments) and
// url-encoded forms; array fields arrive as repeated keys.
func parseSubmission(c *gin.Context) service.Form {
	form := service.Form{
		Values: map[string][]string{},
		Files:  map[string][]*multipart.FileHeader{},
	}
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		form.Values = mf.Value
		form.Files = mf.File
		return form
	}
	if err := c.Request.ParseForm(); err == nil {
		form.Values = c.Request.PostForm
	}
	return form
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondValidation renders an accumulated field-error batch keyed by form
// field name so the caller can highlight every problem at once.
func respondValidation(c *gin.Context, v *dynamic.Validation) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": v.Errors})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "record was modified concurrently"})
	case errors.Is(err, service.ErrDuplicateEntityCode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReservedEntityCode),
		errors.Is(err, service.ErrSystemDefinition),
		errors.Is(err, service.ErrSystemNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
