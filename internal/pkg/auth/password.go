// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"regexp"

	"github.com/your-org/pos-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordManager handles password and PIN hashing
type PasswordManager struct {
	config *config.Config
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{
		config: cfg,
	}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword validates password strength. Registers are often
// shared terminals, so the bar is length rather than character classes.
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must be no more than 128 characters long")
	}
	return nil
}

// HashPIN hashes a cashier quick-login PIN
func (p *PasswordManager) HashPIN(pin string) (string, error) {
	if err := p.ValidatePIN(pin); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(pin), p.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPIN verifies a PIN against its hash
func (p *PasswordManager) VerifyPIN(pin, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}

// ValidatePIN requires a 4-6 digit numeric PIN
func (p *PasswordManager) ValidatePIN(pin string) error {
	if matched, _ := regexp.MatchString(`^\d{4,6}$`, pin); !matched {
		return fmt.Errorf("PIN must be 4 to 6 digits")
	}
	return nil
}
