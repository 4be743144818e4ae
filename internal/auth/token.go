package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"bookvault/internal/config"
	"bookvault/internal/session"

	"github.com/dgrijalva/jwt-go"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// TokenHandlers serves the JSON token endpoint for programmatic clients.
// Tokens carry the same lifetime as browser sessions.
type TokenHandlers struct {
	Config  *config.Config
	service *Service
}

// NewTokenHandlers creates a new TokenHandlers
func NewTokenHandlers(cfg *config.Config, service *Service) *TokenHandlers {
	return &TokenHandlers{Config: cfg, service: service}
}

// GenerateJWT signs a token for the given username.
func (h *TokenHandlers) GenerateJWT(username string) (string, error) {
	expirationTime := time.Now().Add(session.TTL)
	claims := &Claims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Config.JwtKey)
}

// LoginHandler exchanges valid credentials for a signed token.
func (h *TokenHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request format"})
		return
	}

	_, err := h.service.strategy.Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password"})
			return
		}
		log.Printf("Token login failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Something broke!"})
		return
	}

	tokenString, err := h.GenerateJWT(creds.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to generate token"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": tokenString})
}
