package service

import (
	"testing"
	"time"

	"medbase/config"
	"medbase/internal/auth"
	"medbase/internal/domain"
	"medbase/internal/models"
	"medbase/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func authTestConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		AccessSecret:  "test-access",
		RefreshSecret: "test-refresh",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "medbase-test",
	}}
}

func seedOperator(t *testing.T, db *gorm.DB, email, password, role string) *models.Operator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	op := &models.Operator{Email: email, Name: "Test", PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(op).Error)
	return op
}

func TestLoginIssuesTokens(t *testing.T) {
	db := newTestDB(t)
	cfg := authTestConfig()
	svc := NewAuthService(cfg, repository.NewOperatorRepository(db))
	seedOperator(t, db, "reg@clinic.local", "pass123", domain.RoleOperator)

	op, access, refresh, err := svc.Login("reg@clinic.local", "pass123")
	require.NoError(t, err)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, domain.RoleOperator, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(authTestConfig(), repository.NewOperatorRepository(db))
	seedOperator(t, db, "reg@clinic.local", "pass123", domain.RoleOperator)

	_, _, _, err := svc.Login("reg@clinic.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	// Unknown email reports the same error as a wrong password.
	_, _, _, err = svc.Login("ghost@clinic.local", "pass123")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(authTestConfig(), repository.NewOperatorRepository(db))
	op := seedOperator(t, db, "reg@clinic.local", "old-pass", domain.RoleOperator)

	assert.ErrorIs(t, svc.ChangePassword(op.ID, "bogus", "new-pass"), ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(op.ID, "old-pass", "new-pass"))
	_, _, _, err := svc.Login("reg@clinic.local", "new-pass")
	assert.NoError(t, err)
}
