package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// suggestion is a record draft estimated by the model. Weight is grams.
// Confidence is 1-5 indicating how accurate the estimate is.
type suggestion struct {
	Ingredient string  `json:"ingredient"`
	Weight     float64 `json:"weight"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Fats       float64 `json:"fats"`
	Carbs      float64 `json:"carbs"`
	Confidence int     `json:"confidence"`
}

const ingredientSystemPrompt = `You are a nutrition assistant. Parse the food description and return a JSON object with:
- "ingredient" (string, cleaned up title case)
- "weight" (number, grams for the full quantity)
- "calories" (number, kcal for the full quantity)
- "protein" (number, grams for the full quantity)
- "fats" (number, grams for the full quantity)
- "carbs" (number, grams for the full quantity)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── LLM client ─────────────────────────────────────────────────────── */

// complete sends one system+user exchange in JSON mode and returns the text
// of the first choice.
func (h *Handler) complete(ctx context.Context, system, user string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(h.openAIBaseURL+"/v1"),
		openai.WithModel(h.openAIModel),
	)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resp, err := llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, system),
			llms.TextParts(schema.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(0),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestIngredient handles POST /api/suggest. It turns a free-text food
// description into a record draft the client can review before saving.
func (h *Handler) suggestIngredient(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	content, err := h.complete(c.Request.Context(), ingredientSystemPrompt, req.Description)
	if err != nil {
		log.Printf("[suggest] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggest] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var s suggestion
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		log.Printf("[suggest] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Same minimum a record needs to be saved.
	if strings.TrimSpace(s.Ingredient) == "" || s.Calories <= 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, s)
}
