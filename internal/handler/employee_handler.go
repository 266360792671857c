package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"medbase/internal/domain"
	"medbase/internal/models"
	"medbase/internal/repository"
	"medbase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmployeeHandler struct {
	employees *repository.EmployeeRepository
	records   *service.RecordService
}

func NewEmployeeHandler(employees *repository.EmployeeRepository, records *service.RecordService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, records: records}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	emp, err := h.employees.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	form := parseSubmission(c)
	lastName := formValue(form, "last_name")
	if lastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_name is required"})
		return
	}

	props, v, err := h.records.BuildProperties(domain.EntityEmployee, nil, form)
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}

	emp := &models.Employee{
		LastName:   lastName,
		FirstName:  formValue(form, "first_name"),
		MiddleName: formValue(form, "middle_name"),
		Phones:     jsonStringArray(form.Values["phones"]),
		Emails:     jsonStringArray(form.Values["emails"]),
		Properties: props,
	}
	if err := h.employees.Create(emp); err != nil {
		respondError(c, err)
		return
	}
	if err := h.replaceAppointments(emp.ID, form); err != nil {
		respondError(c, err)
		return
	}
	if rewritten, changed := h.records.FinalizeProperties(props, domain.EntityEmployee, emp.ID); changed {
		emp.Properties = rewritten
		if err := h.employees.Update(emp); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, emp)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	emp, err := h.employees.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	form := parseSubmission(c)
	props, v, err := h.records.BuildProperties(domain.EntityEmployee, emp.Properties, form)
	if err != nil {
		respondError(c, err)
		return
	}
	if !v.Ok() {
		respondValidation(c, v)
		return
	}
	// Identity already exists, so files move before the save.
	props, _ = h.records.FinalizeProperties(props, domain.EntityEmployee, emp.ID)

	if lastName := formValue(form, "last_name"); lastName != "" {
		emp.LastName = lastName
	}
	emp.FirstName = formValue(form, "first_name")
	emp.MiddleName = formValue(form, "middle_name")
	emp.Phones = jsonStringArray(form.Values["phones"])
	emp.Emails = jsonStringArray(form.Values["emails"])
	emp.Properties = props
	emp.StaffAppointments = nil

	if err := h.employees.Update(emp); err != nil {
		respondError(c, err)
		return
	}
	if err := h.replaceAppointments(emp.ID, form); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

// replaceAppointments pairs position_ids[i] with department_ids[i]; the
// first pair is the primary appointment.
func (h *EmployeeHandler) replaceAppointments(employeeID uuid.UUID, form service.Form) error {
	positionIDs := form.Values["position_ids"]
	departmentIDs := form.Values["department_ids"]
	var appointments []models.StaffAppointment
	for i, posRaw := range positionIDs {
		if i >= len(departmentIDs) {
			break
		}
		posID, err := uuid.Parse(strings.TrimSpace(posRaw))
		if err != nil {
			continue
		}
		depID, err := uuid.Parse(strings.TrimSpace(departmentIDs[i]))
		if err != nil {
			continue
		}
		appointments = append(appointments, models.StaffAppointment{
			EmployeeID:   employeeID,
			PositionID:   posID,
			DepartmentID: depID,
			IsPrimary:    i == 0,
		})
	}
	return h.employees.ReplaceAppointments(employeeID, appointments)
}

func (h *EmployeeHandler) Dismiss(c *gin.Context) {
	h.setDismissed(c, true)
}

func (h *EmployeeHandler) Restore(c *gin.Context) {
	h.setDismissed(c, false)
}

func (h *EmployeeHandler) setDismissed(c *gin.Context, dismissed bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.employees.SetDismissed(id, dismissed); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_dismissed": dismissed})
}

func formValue(form service.Form, key string) string {
	for _, v := range form.Values[key] {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// jsonStringArray filters blanks and stores the rest as a JSON array.
func jsonStringArray(values []string) datatypes.JSON {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	b, _ := json.Marshal(out)
	return b
}
