package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/vital-balance-go-api/internal/nutrition"
)

// profileResponse is the stored profile plus the values derived from it.
type profileResponse struct {
	nutrition.Profile
	BMR          float64             `json:"bmr"`
	TDEE         float64             `json:"tdee"`
	DailyTargets nutrition.Nutrients `json:"daily_targets"`
}

func newProfileResponse(p nutrition.Profile) profileResponse {
	return profileResponse{
		Profile:      p,
		BMR:          nutrition.BMR(p),
		TDEE:         nutrition.TDEE(p),
		DailyTargets: nutrition.DailyTargets(p),
	}
}

// patchProfileRequest uses pointers so "not provided" differs from zero.
type patchProfileRequest struct {
	Gender        *nutrition.Gender        `json:"gender"`
	Age           *int                     `json:"age"`
	HeightCM      *float64                 `json:"height"`
	WeightKG      *float64                 `json:"weight"`
	ActivityLevel *nutrition.ActivityLevel `json:"activity_level"`
}

// getProfile returns the authenticated user's profile with computed targets.
// Users who never saved one get the default profile.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.profiles.Profile(c, userID)
	if err != nil {
		log.Printf("[getProfile] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(p))
}

// patchProfile updates only the provided profile fields and re-validates the
// result as a whole before saving.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.profiles.Profile(c, userID)
	if err != nil {
		log.Printf("[patchProfile] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	changed := false
	if body.Gender != nil {
		p.Gender = *body.Gender
		changed = true
	}
	if body.Age != nil {
		p.Age = *body.Age
		changed = true
	}
	if body.HeightCM != nil {
		p.HeightCM = *body.HeightCM
		changed = true
	}
	if body.WeightKG != nil {
		p.WeightKG = *body.WeightKG
		changed = true
	}
	if body.ActivityLevel != nil {
		p.ActivityLevel = *body.ActivityLevel
		changed = true
	}
	if !changed {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := p.Validate(); err != nil {
		var verr *nutrition.ValidationError
		if errors.As(err, &verr) {
			apiError(c, http.StatusBadRequest, verr.Error())
			return
		}
		apiError(c, http.StatusBadRequest, "invalid profile")
		return
	}

	if err := h.profiles.SaveProfile(c, userID, p); err != nil {
		log.Printf("[patchProfile] save failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.notify(c, userID, Event{Kind: KindProfileUpdated, Level: LevelSuccess, Message: "profile updated"})
	c.JSON(http.StatusOK, newProfileResponse(p))
}

// getTargets returns just the daily targets for the current profile.
// GET /api/targets.
func (h *Handler) getTargets(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.profiles.Profile(c, userID)
	if err != nil {
		log.Printf("[getTargets] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, nutrition.DailyTargets(p))
}
