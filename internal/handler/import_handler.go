package handler

import (
	"net/http"
	"time"

	"medbase/internal/repository"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
)

// ImportHandler ingests register and journal exports and serves the
// appointment schedule they fill.
type ImportHandler struct {
	imports      *service.ImportService
	appointments *repository.AppointmentRepository
}

func NewImportHandler(imports *service.ImportService, appointments *repository.AppointmentRepository) *ImportHandler {
	return &ImportHandler{imports: imports, appointments: appointments}
}

func (h *ImportHandler) ImportVisits(c *gin.Context) {
	var rows []service.VisitImportRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.imports.ImportVisits(rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ImportHandler) ImportAppointments(c *gin.Context) {
	var rows []service.AppointmentImportRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.imports.ImportAppointments(rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListAppointments returns the journal for ?start=YYYY-MM-DD&end=YYYY-MM-DD,
// end day inclusive.
func (h *ImportHandler) ListAppointments(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}
	appointments, err := h.appointments.ListInPeriod(start, end.AddDate(0, 0, 1))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}
