package handler

import (
	"net/http"
	"strings"
	"time"

	"medbase/internal/repository"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patients   *repository.PatientRepository
	visits     *repository.VisitRepository
	search     *service.PatientSearchService
	statistics *service.StatisticsService
}

func NewPatientHandler(patients *repository.PatientRepository, visits *repository.VisitRepository, search *service.PatientSearchService, statistics *service.StatisticsService) *PatientHandler {
	return &PatientHandler{patients: patients, visits: visits, search: search, statistics: statistics}
}

func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patients.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

// Details returns the patient with their visit history newest first.
func (h *PatientHandler) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	patient, err := h.patients.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	visits, err := h.visits.ListByPatient(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient, "visits": visits})
}

// Search answers free-text visit lookups. Matches beyond the auto-show cap
// come back as a count only unless all=true.
func (h *PatientHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len([]rune(query)) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 2 characters"})
		return
	}
	showAll := c.Query("all") == "true"
	result, err := h.search.Search(query, showAll)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PeriodReport aggregates visit revenue over ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *PatientHandler) PeriodReport(c *gin.Context) {
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
	report, err := h.statistics.PeriodReport(start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
