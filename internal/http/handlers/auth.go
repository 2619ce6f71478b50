package handlers

import (
	"database/sql"
	"net/http"
	"time"

	intconfig "haulhub/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers issues the tokens that identify dispatchers; the token
// subject is the actor recorded in the trip audit trail.
type AuthHandlers struct {
	Secret []byte
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	OwnerID string `json:"owner_id"`
}

// POST /api/auth/login
func (h AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         authUser
		passwordHash string
	)
	err := intconfig.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, name, email, password_hash, role, owner_id
		FROM dispatchers
		WHERE email = ?`, req.Email).Scan(
		&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role, &user.OwnerID,
	)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "login query failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.Email,
		"owner_id": user.OwnerID,
		"role":     user.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to sign token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "user": user})
}
