package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/sellermetrics/catalog_api/internal/models"
	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// AdminAuthService verifies admin panel credentials and issues JWTs. Account
// provisioning is owned by the central auth service.
type AdminAuthService struct {
	adminRepo *repository.AdminUserRepository
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(adminRepo *repository.AdminUserRepository) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo}
}

// Login verifies credentials and returns a signed token.
func (s *AdminAuthService) Login(email, password string) (string, error) {
	user, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		log.Warn().Str("email", email).Msg("login attempt for unknown account")
		return "", errors.New("invalid credentials")
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("login attempt for inactive account")
		return "", errors.New("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("login attempt with wrong password")
		return "", errors.New("invalid credentials")
	}

	log.Info().Str("email", email).Msg("login successful")
	return utils.GenerateJWT(user.ID, user.Email)
}

// CreateAdmin hashes the password and stores a new admin account. Used by
// provisioning scripts only; there is no HTTP surface for it.
func (s *AdminAuthService) CreateAdmin(email, password, name string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}
	return s.adminRepo.Create(user)
}
