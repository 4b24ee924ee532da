package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupSuggestTest creates a Gin engine with a mock OpenAI server and returns
// the router and a function to set the mock response. No store needed.
func setupSuggestTest() (*gin.Engine, *httptest.Server, func(int, interface{}), func() map[string]interface{}) {
	var mu sync.Mutex
	var mockStatus int
	var mockBody interface{}
	var lastRequest map[string]interface{}

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		lastRequest = req
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	gin.SetMode(gin.TestMode)
	h := Handler{openAIBaseURL: mockOpenAI.URL, openAIModel: "gpt-4o-mini"}
	router := gin.New()
	// Skip auth middleware for tests and set a dummy user_id
	router.POST("/api/suggest", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.suggestIngredient)

	setMock := func(status int, body interface{}) {
		mu.Lock()
		defer mu.Unlock()
		mockStatus = status
		mockBody = body
	}
	last := func() map[string]interface{} {
		mu.Lock()
		defer mu.Unlock()
		return lastRequest
	}

	return router, mockOpenAI, setMock, last
}

// doSuggestRequest sends a POST to the suggest endpoint with the given body.
func doSuggestRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/suggest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestSuggest_Success(t *testing.T) {
	router, mockServer, setMock, last := setupSuggestTest()
	defer mockServer.Close()

	content := `{"ingredient":"Scrambled Eggs","weight":120,"calories":180,"protein":14,"fats":12,"carbs":2,"confidence":4}`
	setMock(http.StatusOK, openAIChatResponse(content))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"2 eggs scrambled"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp suggestion
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Ingredient != "Scrambled Eggs" {
		t.Errorf("expected ingredient 'Scrambled Eggs', got '%s'", resp.Ingredient)
	}
	if resp.Calories != 180 || resp.Weight != 120 {
		t.Errorf("expected 180 kcal / 120 g, got %v / %v", resp.Calories, resp.Weight)
	}

	req := last()
	if req["model"] != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %v", req["model"])
	}
	msgs, _ := req["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %v", req["messages"])
	}
}

func TestSuggest_Unrecognized(t *testing.T) {
	router, mockServer, setMock, _ := setupSuggestTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"error":"unrecognized"}`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"asdfghjkl"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "unrecognized" {
		t.Errorf("expected error 'unrecognized', got '%s'", resp["error"])
	}
}

func TestSuggest_UnusableSuggestion(t *testing.T) {
	router, mockServer, setMock, _ := setupSuggestTest()
	defer mockServer.Close()

	// A suggestion that could not be saved as a record is treated as unrecognized
	setMock(http.StatusOK, openAIChatResponse(`{"ingredient":"Water","weight":250,"calories":0}`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"glass of water"}`)

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp["error"] != "unrecognized" {
		t.Errorf("expected 200 unrecognized, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSuggest_OpenAIError500(t *testing.T) {
	router, mockServer, setMock, _ := setupSuggestTest()
	defer mockServer.Close()

	setMock(http.StatusInternalServerError, map[string]interface{}{"error": map[string]string{"message": "server error"}})
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"banana"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "openai request failed" {
		t.Errorf("expected error 'openai request failed', got '%s'", resp["error"])
	}
}

func TestSuggest_MissingAPIKey(t *testing.T) {
	router, mockServer, setMock, _ := setupSuggestTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"ingredient":"Banana","calories":105}`))
	t.Setenv("OPENAI_API_KEY", "")

	w := doSuggestRequest(router, `{"description":"banana"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSuggest_EmptyDescription(t *testing.T) {
	router, mockServer, _, _ := setupSuggestTest()
	defer mockServer.Close()

	w := doSuggestRequest(router, `{"description":"   "}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSuggest_MalformedJSON(t *testing.T) {
	router, mockServer, setMock, _ := setupSuggestTest()
	defer mockServer.Close()

	// OpenAI returns something that isn't valid JSON
	setMock(http.StatusOK, openAIChatResponse(`not valid json at all`))
	t.Setenv("OPENAI_API_KEY", "test-key")

	w := doSuggestRequest(router, `{"description":"banana"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}
