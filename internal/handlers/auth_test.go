package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/internal/services"
	"github.com/hopefund/backend/internal/utils"
	"gorm.io/gorm"
)

// stubIdentity stands in for the Google token endpoint.
type stubIdentity struct {
	profile *services.GoogleProfile
	err     error
}

func (s *stubIdentity) Exchange(_ context.Context, _ string) (*services.GoogleProfile, error) {
	return s.profile, s.err
}

func authRouter(t *testing.T, db *gorm.DB, identity *stubIdentity) *gin.Engine {
	t.Helper()
	utils.SetJWTSecret("test-secret")

	auth := services.NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireMinutes: 30}, identity)
	h := NewAuthHandler(auth, services.NewUserService(db), nil, "http://localhost:3000")

	router := gin.New()
	router.POST("/auth/google", h.GoogleLogin)
	return router
}

func TestGoogleLogin_BadCode(t *testing.T) {
	identity := &stubIdentity{err: errors.New("invalid_grant")}
	router := authRouter(t, testDB(t), identity)

	w := postJSON(t, router, "/auth/google", `{"code": "stale-code"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, expected %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "google login failed") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

// A failure after the code exchange is a server-side fault and must not be
// reported as the client's 400.
func TestGoogleLogin_StorageFailure(t *testing.T) {
	db := testDB(t)
	identity := &stubIdentity{profile: &services.GoogleProfile{
		Sub:   "google-sub-1",
		Email: "donor@example.com",
		Name:  "Donor",
	}}
	router := authRouter(t, db, identity)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, router, "/auth/google", `{"code": "valid-code"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, expected %d; body: %s", w.Code, http.StatusInternalServerError, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "google login failed") {
		t.Errorf("storage failure reported as a bad code: %s", w.Body.String())
	}
}

func TestGoogleLogin_MissingCode(t *testing.T) {
	router := authRouter(t, testDB(t), &stubIdentity{})

	w := postJSON(t, router, "/auth/google", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, expected %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "invalid request body") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
