// CLI tool to create a user with bcrypt-hashed password and the default profile.
// Writes to whichever store STORE selects, so redis deployments can seed users too.
// Usage: go run ./cmd/create-user (from the repo root)
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"lg/vital-balance-go-api/internal/nutrition"
	"lg/vital-balance-go-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := store.Config{
		Backend:       os.Getenv("STORE"),
		DBURL:         os.Getenv("DB_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}
	if cfg.Backend == "memory" {
		fmt.Fprintln(os.Stderr, "STORE=memory does not persist; use postgres or redis")
		os.Exit(1)
	}

	ctx := context.Background()
	s, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Username: ")
	email := prompt(reader, "Email: ")
	password := prompt(reader, "Password: ")

	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password are required")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	authToken := uuid.New().String()

	userID, err := s.CreateUser(ctx, store.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		AuthToken: authToken,
	})
	if errors.Is(err, store.ErrUsernameTaken) {
		fmt.Fprintf(os.Stderr, "Username %q is already taken\n", username)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	if err := s.SaveProfile(ctx, userID, nutrition.DefaultProfile()); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
