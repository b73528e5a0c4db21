// Package users holds the credential manager orchestrating registration,
// login, password lifecycle, and profile CRUD on top of the store adapter,
// the password hasher, and the token service. Every read goes to the store;
// nothing is cached across calls.
package users

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"users-api/internal/auth"
	"users-api/internal/store"
)

// resetTokenTTL is the server-side copy of the reset token lifetime. The
// stored expiry can be cleared to revoke an outstanding token even while
// the token's own exp claim is still valid.
const resetTokenTTL = time.Hour

// Store is the credential store surface the manager needs. The adapter in
// internal/store implements it; tests substitute a mock.
type Store interface {
	GetByID(ctx context.Context, id string) (*store.User, error)
	GetByEmail(ctx context.Context, email string) (*store.User, error)
	Put(ctx context.Context, user *store.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	ScanAll(ctx context.Context) ([]*store.User, error)
}

// TokenIssuer mints and verifies the signed bearer tokens the manager hands
// out on login and during password resets.
type TokenIssuer interface {
	IssueAccessToken(userID, email string) (string, error)
	IssueResetToken(userID, email string) (string, error)
	Verify(token, expectedPurpose string) (*auth.Claims, error)
}

// Manager is the user credential manager.
type Manager struct {
	store  Store
	tokens TokenIssuer
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewManager wires a Manager to its store and token service.
func NewManager(st Store, tokens TokenIssuer) *Manager {
	return &Manager{
		store:  st,
		tokens: tokens,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithClock overrides the time source, used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithIDGenerator overrides id generation, used by tests.
func (m *Manager) WithIDGenerator(newID func() string) *Manager {
	m.newID = newID
	return m
}

// Register validates the input, checks the email is not taken, and creates
// the record with a freshly hashed password.
//
// The uniqueness check is check-then-put with no transactional guard: two
// concurrent registrations for the same email can both succeed, after which
// GetByEmail returns whichever record the index yields first.
func (m *Manager) Register(ctx context.Context, input RegisterInput) (*PublicUser, error) {
	if err := input.Validate(); err != nil {
		return nil, validationError(err)
	}

	_, err := m.store.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, ErrEmailInUse
	case store.IsRecordNotFound(err):
		// free to proceed
	default:
		return nil, storeFailure(err, "email lookup failed")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	now := m.now().UTC().Truncate(time.Second)
	user := &store.User{
		ID:           m.newID(),
		Email:        input.Email,
		Name:         input.Name,
		Age:          input.Age,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.store.Put(ctx, user); err != nil {
		return nil, storeFailure(err, "failed to create user")
	}

	m.logger.Info("user registered", "id", user.ID)
	return publicUser(user), nil
}

// Login verifies the credentials and issues a bearer access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := m.store.GetByEmail(ctx, email)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeFailure(err, "email lookup failed")
	}

	if user.PasswordHash == "" {
		// record predates password support or was written out of band
		return nil, ErrInvalidCredentials
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if goerrors.Is(err, auth.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "password verification failed")
	}

	token, err := m.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue access token")
	}

	m.logger.Info("user logged in", "id", user.ID)
	return &LoginResult{
		Token: auth.BearerScheme + " " + token,
		User:  LoginUser{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password. A failed verification never mutates the record.
func (m *Manager) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := m.store.GetByID(ctx, userID)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return storeFailure(err, "user lookup failed")
	}

	if err := auth.ComparePasswordAndHash(currentPassword, user.PasswordHash); err != nil {
		return ErrIncorrectPassword
	}

	if err := validatePassword(newPassword); err != nil {
		return validationError(validation.Errors{"newPassword": err})
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if err := m.store.Update(ctx, user.ID, map[string]any{"passwordHash": hash}); err != nil {
		return storeFailure(err, "failed to update password")
	}

	m.logger.Info("password changed", "id", user.ID)
	return nil
}

// RequestPasswordReset issues a single-purpose reset token for the account
// behind the email and records its hash and expiry on the user record.
// Issuing a new token overwrites any prior outstanding one. The raw token is
// returned for out-of-band delivery; only its hash is persisted.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := m.store.GetByEmail(ctx, email)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", storeFailure(err, "email lookup failed")
	}

	token, err := m.tokens.IssueResetToken(user.ID, user.Email)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue reset token")
	}

	expiry := m.now().Add(resetTokenTTL)
	fields := map[string]any{
		"resetTokenHash":   hashToken(token),
		"resetTokenExpiry": expiry.Unix(),
	}
	if err := m.store.Update(ctx, user.ID, fields); err != nil {
		return "", storeFailure(err, "failed to persist reset token")
	}

	m.logger.Info("password reset requested", "id", user.ID)
	return token, nil
}

// RedeemPasswordReset validates a reset token and replaces the password.
// The token must pass its own signature and expiry checks, match the stored
// hash, and the record-side expiry must still be in the future. The reset
// fields are cleared on success, so a token redeems at most once.
func (m *Manager) RedeemPasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := m.tokens.Verify(token, auth.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := validatePassword(newPassword); err != nil {
		return validationError(validation.Errors{"newPassword": err})
	}

	user, err := m.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return storeFailure(err, "user lookup failed")
	}

	if user.ResetTokenHash == "" || user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(m.now()) {
		return auth.ErrTokenExpired
	}

	if user.ResetTokenHash != hashToken(auth.StripBearer(token)) {
		return auth.ErrTokenInvalid
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	fields := map[string]any{
		"passwordHash":     hash,
		"resetTokenHash":   nil,
		"resetTokenExpiry": nil,
	}
	if err := m.store.Update(ctx, user.ID, fields); err != nil {
		return storeFailure(err, "failed to reset password")
	}

	m.logger.Info("password reset redeemed", "id", user.ID)
	return nil
}

// Get returns the public projection of a single user.
func (m *Manager) Get(ctx context.Context, id string) (*PublicUser, error) {
	user, err := m.store.GetByID(ctx, id)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeFailure(err, "user lookup failed")
	}
	return publicUser(user), nil
}

// List returns public projections of every user, unordered.
func (m *Manager) List(ctx context.Context) ([]*PublicUser, error) {
	records, err := m.store.ScanAll(ctx)
	if err != nil {
		return nil, storeFailure(err, "user scan failed")
	}

	result := make([]*PublicUser, 0, len(records))
	for _, u := range records {
		result = append(result, publicUser(u))
	}
	return result, nil
}

// UpdateProfile applies the given profile fields to an existing record.
func (m *Manager) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*PublicUser, error) {
	if err := input.Validate(); err != nil {
		return nil, validationError(err)
	}

	user, err := m.store.GetByID(ctx, id)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeFailure(err, "user lookup failed")
	}

	// One timestamp for the write and the response, so the caller never
	// sees a different updatedAt than the record holds.
	stamp := m.now().UTC().Truncate(time.Second)
	fields := map[string]any{"updatedAt": stamp.Unix()}
	if input.Name != nil {
		fields["name"] = *input.Name
		user.Name = *input.Name
	}
	if input.Age != nil {
		fields["age"] = *input.Age
		user.Age = input.Age
	}

	if err := m.store.Update(ctx, id, fields); err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeFailure(err, "failed to update user")
	}

	user.UpdatedAt = stamp
	return publicUser(user), nil
}

// Delete removes the record. The existence check makes a missing id surface
// as NotFound rather than a silent no-op.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.store.GetByID(ctx, id); err != nil {
		if store.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return storeFailure(err, "user lookup failed")
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return storeFailure(err, "failed to delete user")
	}

	m.logger.Info("user deleted", "id", id)
	return nil
}

// hashToken stores only a digest of an outstanding reset token, so a leaked
// table dump cannot be replayed as a live token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
