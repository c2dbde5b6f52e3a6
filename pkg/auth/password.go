package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/gymdesk/pkg/domain"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

const (
	// MinPasswordLength is the shortest accepted staff password.
	MinPasswordLength = 8

	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

// StaffStore is the persistence used by PasswordService.
type StaffStore interface {
	Create(ctx context.Context, s *domain.Staff) error
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	Count(ctx context.Context) (int, error)
	IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID, lockoutDuration time.Duration, maxAttempts int) error
	ResetFailedLoginAttempts(ctx context.Context, id uuid.UUID) error
}

// PasswordService handles staff password authentication.
type PasswordService struct {
	staff StaffStore
}

// NewPasswordService creates a new password service.
func NewPasswordService(staff StaffStore) *PasswordService {
	return &PasswordService{staff: staff}
}

// CreateStaff creates a staff account with password credentials.
func (s *PasswordService) CreateStaff(ctx context.Context, email, password, name string) (*domain.Staff, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	staff := &domain.Staff{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name = SanitizeText(name); name != "" {
		staff.Name = &name
	}

	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Bootstrap creates the first staff account when none exist yet.
// It reports whether an account was created.
func (s *PasswordService) Bootstrap(ctx context.Context, email, password string) (bool, error) {
	n, err := s.staff.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.CreateStaff(ctx, email, password, "Administrator"); err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate verifies email and password and returns the staff account.
// Accounts are locked for 15 minutes after 5 failed attempts.
func (s *PasswordService) Authenticate(ctx context.Context, email, password string) (*domain.Staff, error) {
	staff, err := s.staff.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if staff.IsLocked() {
		return nil, domain.ErrAccountLocked
	}

	if !VerifyPassword(password, staff.PasswordHash) {
		_ = s.staff.IncrementFailedLoginAttempts(ctx, staff.ID, lockoutDuration, maxFailedAttempts)
		return nil, domain.ErrInvalidCredentials
	}

	if staff.FailedLoginAttempts > 0 || staff.LockedUntil != nil {
		_ = s.staff.ResetFailedLoginAttempts(ctx, staff.ID)
	}

	return staff, nil
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters long", MinPasswordLength))
	}
	return nil
}

// HashPassword hashes a password using Argon2id.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return encodeArgon2Hash(hash, salt, argon2Time, argon2Memory, argon2Threads), nil
}

// VerifyPassword verifies a password against an Argon2id hash.
func VerifyPassword(password, encodedHash string) bool {
	hash, salt, time, memory, threads, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, computed) == 1
}

func encodeArgon2Hash(hash, salt []byte, time, memory uint32, threads uint8) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, time, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

var errInvalidHash = errors.New("invalid argon2id hash")

func decodeArgon2Hash(encoded string) (hash, salt []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, errInvalidHash
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, errInvalidHash
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, errInvalidHash
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, errInvalidHash
	}
	if hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(hash) == 0 {
		return nil, nil, 0, 0, 0, errInvalidHash
	}
	return hash, salt, time, memory, threads, nil
}
