package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cliniclink/telehealth-server/internal/models"
	"github.com/cliniclink/telehealth-server/internal/store"
)

// ListAppointments returns the appointments visible to the given user, with
// the patient and therapist records joined in.
func ListAppointments(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		role := c.Query("role")
		ctx := c.Request.Context()

		appts, err := st.Appointments(ctx, userID, role)
		if err != nil {
			log.Printf("Failed to list appointments: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load appointments"})
			return
		}

		enriched := make([]models.EnrichedAppointment, 0, len(appts))
		for _, appt := range appts {
			e := models.EnrichedAppointment{Appointment: appt}
			if patient, err := st.User(ctx, appt.PatientID); err == nil {
				e.Patient = &patient
			}
			if therapist, err := st.User(ctx, appt.TherapistID); err == nil {
				e.Therapist = &therapist
			}
			enriched = append(enriched, e)
		}

		c.JSON(http.StatusOK, enriched)
	}
}

// CreateAppointment books a new appointment slot (requires authentication).
func CreateAppointment(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var req models.CreateAppointmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		appt := models.Appointment{
			ID:          uuid.New().String(),
			PatientID:   req.PatientID,
			TherapistID: req.TherapistID,
			Date:        req.Date,
			Time:        req.Time,
			Status:      models.AppointmentScheduled,
			Type:        req.Type,
		}

		if err := st.AddAppointment(c.Request.Context(), appt); err != nil {
			log.Printf("Failed to store appointment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
			return
		}

		log.Printf("Appointment %s created by user %v", appt.ID, userID)
		c.JSON(http.StatusCreated, appt)
	}
}
