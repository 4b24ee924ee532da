package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"lg/vital-balance-go-api/internal/store"
)

// dummyHash is compared against when the username is unknown so a failed
// lookup costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// login verifies username/password and returns the user's auth token.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.users.UserByUsername(c, body.Username)
	if lookupErr != nil && !errors.Is(lookupErr, store.ErrNotFound) {
		log.Printf("[login] lookup failed for %q: %v", body.Username, lookupErr)
	}

	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// wsPath is the only route that takes its token from the query string.
const wsPath = "/api/ws"

// authMiddleware validates the Bearer token and sets user_id on the context.
// Browsers cannot set headers on a websocket upgrade, so the websocket route
// alone also accepts a token query parameter.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else if c.FullPath() == wsPath {
			token = c.Query("token")
		}
		if token == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		userID, err := h.users.UserIDByToken(c, token)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("[authMiddleware] token lookup failed: %v", err)
			}
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// redactToken masks the token query parameter so access logs never carry
// credentials.
func redactToken(path string) string {
	base, rawQuery, ok := strings.Cut(path, "?")
	if !ok {
		return path
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base + "?[unparsable query]"
	}
	if _, ok := q["token"]; !ok {
		return path
	}
	q.Set("token", "REDACTED")
	return base + "?" + q.Encode()
}

// accessLogFormatter is gin's default line format with the token redacted.
func accessLogFormatter(param gin.LogFormatterParams) string {
	if param.Latency > time.Minute {
		param.Latency = param.Latency.Truncate(time.Second)
	}
	return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
		param.TimeStamp.Format("2006/01/02 - 15:04:05"),
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		redactToken(param.Path),
		param.ErrorMessage,
	)
}
