package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"frota/pkg/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore is the slice of the staff repository the login path
// needs. Keeping it local avoids a dependency on the identity package,
// which itself registers routes guarded by this package.
type CredentialStore interface {
	GetStaffByEmail(email string) (*models.StaffMember, error)
}

func secretKey() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	return []byte(secret), nil
}

// AuthenticateStaff checks the bundled credential store. External identity
// providers bypass this entirely and land in the middleware with a token
// carrying the staff id.
func AuthenticateStaff(email, password string, repo CredentialStore) (*models.StaffMember, error) {
	member, err := repo.GetStaffByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !member.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return member, nil
}

func GenerateJWT(staffID string, roleCode string) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"staffID": staffID,
		"role":    roleCode,
		"exp":     time.Now().Add(12 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
