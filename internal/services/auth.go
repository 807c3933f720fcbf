package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/internal/models"
	"github.com/hopefund/backend/internal/utils"
	"github.com/hopefund/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an
	// account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email, wrong password, disabled
	// account and non-admin on the admin surface. Deliberately a single error:
	// login failures must not reveal which check failed.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrGoogleExchange marks a failed authorization-code exchange with the
	// provider. A client-side problem (bad or expired code), unlike the
	// storage errors GoogleLogin can also return.
	ErrGoogleExchange = errors.New("google code exchange failed")
)

// identityProvider is the slice of GoogleClient the auth flow needs.
type identityProvider interface {
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

// Session is a successful authentication result: a signed bearer token plus
// the public view of the account.
type Session struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        models.PublicUser `json:"user"`
}

type AuthService struct {
	db       *gorm.DB
	jwtCfg   *config.JWTConfig
	identity identityProvider
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, identity identityProvider) *AuthService {
	return &AuthService{
		db:       db,
		jwtCfg:   jwtCfg,
		identity: identity,
	}
}

// NormalizeEmail is the single normalization applied at both write and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password account and issues a session.
func (s *AuthService) Register(name, email, password string) (*Session, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		Role:         models.RoleUser,
	}

	// Uniqueness is enforced by the storage-level index, not by a prior
	// lookup, so two concurrent registrations cannot both succeed.
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issueSession(&user)
}

// Login authenticates a password account and issues a session.
func (s *AuthService) Login(email, password string) (*Session, error) {
	user, err := s.authenticate(email, password)
	if err != nil {
		return nil, err
	}
	return s.issueSession(user)
}

// AdminLogin is Login restricted to admin accounts. A valid non-admin login
// fails with the same error as bad credentials.
func (s *AuthService) AdminLogin(email, password string) (*Session, error) {
	user, err := s.authenticate(email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(user)
}

func (s *AuthService) authenticate(email, password string) (*models.User, error) {
	user, err := s.ByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GoogleLogin exchanges the authorization code and resolves the account:
// match by Google subject id, else link onto the email-matched account, else
// create a passwordless account. Always issues a session on success.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*Session, error) {
	profile, err := s.identity.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleExchange, err)
	}

	user, err := s.resolveGoogleAccount(profile)
	if err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

func (s *AuthService) resolveGoogleAccount(profile *GoogleProfile) (*models.User, error) {
	user, err := s.ByGoogleID(profile.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := NormalizeEmail(profile.Email)

	user, err = s.ByEmail(email)
	if err == nil {
		// First OAuth login for an existing password account: attach the
		// subject id so later logins resolve directly.
		updates := map[string]interface{}{"google_id": profile.Sub}
		if profile.Picture != "" {
			updates["profile_picture"] = profile.Picture
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return s.ByEmail(email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := profile.Sub
	created := models.User{
		Email:          email,
		Name:           profile.Name,
		GoogleID:       &sub,
		ProfilePicture: profile.Picture,
		IsActive:       true,
		Role:           models.RoleUser,
	}
	if err := s.db.Create(&created).Error; err != nil {
		if isDuplicateKey(err) {
			// Lost a race against a concurrent first login; the winner's row
			// is the account.
			return s.ByGoogleID(profile.Sub)
		}
		return nil, err
	}
	return &created, nil
}

// ByEmail looks up an account by normalized email.
func (s *AuthService) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ByGoogleID looks up an account by Google subject id.
func (s *AuthService) ByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) issueSession(user *models.User) (*Session, error) {
	token, err := utils.GenerateToken(user.Email, user.Role, s.jwtCfg.ExpireMinutes)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Public(),
	}, nil
}

// EnsureAdmin seeds the configured admin account if it does not exist yet.
func (s *AuthService) EnsureAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	email = NormalizeEmail(email)
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		IsActive:     true,
		Role:         models.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		return err
	}

	logger.Info().Str("email", email).Msg("seeded admin account")
	return nil
}

// isDuplicateKey detects unique-index violations across drivers. gorm
// translates most of them; the string check covers sqlite builds that don't.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
