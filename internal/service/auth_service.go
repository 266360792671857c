package service

import (
	"errors"

	"medbase/config"
	"medbase/internal/auth"
	"medbase/internal/models"
	"medbase/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCreds  = errors.New("invalid email or password")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type AuthService struct {
	cfg       *config.Config
	operators *repository.OperatorRepository
}

func NewAuthService(cfg *config.Config, operators *repository.OperatorRepository) *AuthService {
	return &AuthService{cfg: cfg, operators: operators}
}

func (s *AuthService) Login(email, password string) (*models.Operator, string, string, error) {
	op, err := s.operators.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, op.ID, op.Email, op.Role)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, op.ID)
	if err != nil {
		return nil, "", "", err
	}
	return op, access, refresh, nil
}

func (s *AuthService) ChangePassword(operatorID uuid.UUID, currentPassword, newPassword string) error {
	op, err := s.operators.GetByID(operatorID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	op.PasswordHash = string(hash)
	return s.operators.Update(op)
}
