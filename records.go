package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/vital-balance-go-api/internal/nutrition"
	"lg/vital-balance-go-api/internal/store"
)

// getRecords returns every intake record of the authenticated user.
// GET /api/records. Returns an empty array (not null) when there are none.
func (h *Handler) getRecords(c *gin.Context) {
	userID := c.GetInt("user_id")

	records, err := h.records.Load(c, userID)
	if err != nil {
		log.Printf("[getRecords] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch records")
		return
	}
	if records == nil {
		records = []nutrition.Record{}
	}

	c.JSON(http.StatusOK, records)
}

// createRecord validates and stores a new intake record.
// POST /api/records. Only ingredient and calories are required; date defaults
// to today and missing or non-numeric macros count as 0.
func (h *Handler) createRecord(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body nutrition.Draft
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := nutrition.NewRecord(body, h.engine.Today())
	if err != nil {
		var verr *nutrition.ValidationError
		if errors.As(err, &verr) {
			h.notify(c, userID, Event{Kind: KindRecordRejected, Level: LevelWarning, Message: verr.Error()})
			apiError(c, http.StatusBadRequest, verr.Error())
			return
		}
		apiError(c, http.StatusBadRequest, "invalid record")
		return
	}

	id, err := h.records.Save(c, userID, record)
	if err != nil {
		log.Printf("[createRecord] save failed for user %d: %v", userID, err)
		h.notify(c, userID, Event{Kind: KindRecordRejected, Level: LevelError, Message: "failed to create record"})
		apiError(c, http.StatusInternalServerError, "failed to create record")
		return
	}
	record.ID = id

	h.notify(c, userID, Event{Kind: KindRecordCreated, Level: LevelSuccess, Message: "record added", Record: &record})
	c.JSON(http.StatusCreated, record)
}

// deleteRecord removes an intake record. Returns 204 on success.
// DELETE /api/records/:id. Confirmation is the client's job.
func (h *Handler) deleteRecord(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	err := h.records.Delete(c, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		apiError(c, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		log.Printf("[deleteRecord] delete %s failed for user %d: %v", id, userID, err)
		apiError(c, http.StatusInternalServerError, "failed to delete record")
		return
	}

	h.notify(c, userID, Event{Kind: KindRecordDeleted, Level: LevelSuccess, Message: "record deleted", RecordID: id})
	c.Status(http.StatusNoContent)
}

// parseSelector reads period, start and end query params. start and end are
// only meaningful for period=custom and are ignored otherwise.
func parseSelector(c *gin.Context) (nutrition.Selector, error) {
	period, err := nutrition.ParsePeriod(c.Query("period"))
	if err != nil {
		return nutrition.Selector{}, err
	}
	sel := nutrition.Selector{Period: period}
	if period != nutrition.PeriodCustom {
		return sel, nil
	}

	for _, bound := range []struct {
		name string
		dst  **nutrition.Date
	}{{"start", &sel.Start}, {"end", &sel.End}} {
		s := c.Query(bound.name)
		if s == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nutrition.Selector{}, &nutrition.ValidationError{Field: bound.name, Reason: "must be YYYY-MM-DD"}
		}
		d := nutrition.DateOf(t)
		*bound.dst = &d
	}
	return sel, sel.Validate()
}

// getSummary returns targets, per-day groups with ratings and period totals.
// GET /api/summary?period=today|week|month|custom&start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) getSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	sel, err := parseSelector(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	records, profile, err := h.loadState(c, userID)
	if err != nil {
		log.Printf("[getSummary] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch records")
		return
	}

	c.JSON(http.StatusOK, h.engine.Summarize(records, profile, sel))
}
