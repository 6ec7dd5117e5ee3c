package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epoch-io/epoch/internal/middleware"
	"github.com/epoch-io/epoch/internal/models"
	"github.com/epoch-io/epoch/internal/report"
	"github.com/epoch-io/epoch/internal/repository"
)

type EntryHandler struct {
	entries repository.TimeEntryRepository
}

func NewEntryHandler(entries repository.TimeEntryRepository) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// List returns the caller's entries, newest created first.
func (h *EntryHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entries, err := h.entries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error fetching entries for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if entries == nil {
		entries = []models.TimeEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// Create validates the submission, computes the worked hours server-side and
// persists the entry. Nothing is written when validation fails, and the
// response carries the stored record with its assigned id and timestamp.
func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hours, err := models.ComputeHours(req.TimeIn, req.TimeOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.TimeEntry{
		Date:        req.Date,
		Activity:    req.Activity,
		Project:     req.Project,
		TimeIn:      req.TimeIn,
		TimeOut:     req.TimeOut,
		Billable:    req.Billable,
		HoursWorked: hours,
		UserID:      userID,
	}

	if err := h.entries.Create(c.Request.Context(), entry); err != nil {
		log.Printf("Error adding entry for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}

// Delete removes exactly the identified entry, provided the caller owns it.
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry id"})
		return
	}

	if err := h.entries.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		log.Printf("Error deleting entry %d for user %d: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// Export streams the caller's weekly report workbook as a download.
func (h *EntryHandler) Export(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	email, _ := middleware.GetUserEmail(c)

	entries, err := h.entries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error fetching entries for export, user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now()
	data, err := report.Generate(email, entries, now)
	if err != nil {
		log.Printf("Error generating report for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(email, now)))
	c.Data(http.StatusOK, report.ContentType, data)
}
