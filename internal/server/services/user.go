// Package services contains server-side business logic. This file implements
// UserService: registration with data key generation, login with key
// unwrapping, token refresh, password change and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/keywrap"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is what a successful login hands back to the transport.
// DataKey is plaintext; callers must not log or persist it.
type LoginResult struct {
	User    *models.User
	Tokens  *TokenPair
	DataKey []byte
}

// UserService provides account operations. The KEK is always derived from
// the raw password and the user's own salt; the data key is generated once
// at registration and only ever re-wrapped afterwards.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	deriver                      *keywrap.Deriver
	bcryptCost                   int
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, deriver *keywrap.Deriver, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		deriver:                      deriver,
		bcryptCost:                   cfg.BcryptCost,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if len(password) < common.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, common.MinPasswordLength)
	}
	return nil
}

// Register creates a user with a fresh data key wrapped under a KEK derived
// from password. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	// cheap pre-check; the unique index still decides races
	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := cryptox.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	dataKey := keywrap.GenerateDataKey()
	defer common.WipeByteArray(dataKey)

	salt := keywrap.GenerateSalt()
	wrapped, err := s.deriver.Seal(ctx, []byte(password), salt, dataKey)
	if err != nil {
		return nil, fmt.Errorf("error wrapping data key: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		KEKSalt:      salt,
		WrappedKey:   wrapped,
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// authenticate loads the user and checks password. Unknown users still pay
// a bcrypt comparison.
func (s *UserService) authenticate(ctx context.Context, lookup func() (*models.User, error), password string) (*models.User, error) {
	user, err := lookup()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnPasswordCheck([]byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !cryptox.CheckPassword(user.PasswordHash, []byte(password)) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// openDataKey unwraps the stored key. A cancelled context is passed through;
// every other failure means the credentials do not match the stored key.
func (s *UserService) openDataKey(ctx context.Context, user *models.User, password string) ([]byte, error) {
	dataKey, err := s.deriver.Open(ctx, []byte(password), user.KEKSalt, user.WrappedKey)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, common.ErrorUnauthorized
	}
	return dataKey, nil
}

// Login verifies credentials, unwraps the data key and issues a TokenPair.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := s.authenticate(ctx, func() (*models.User, error) {
		return repo.GetUserByEmail(ctx, normalizeEmail(email))
	}, password)
	if err != nil {
		return nil, err
	}

	dataKey, err := s.openDataKey(ctx, user, password)
	if err != nil {
		return nil, err
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		common.WipeByteArray(dataKey)
		return nil, err
	}

	return &LoginResult{User: user, Tokens: pair, DataKey: dataKey}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		// A concurrent refresh or a password change may have consumed the
		// token since Find; Delete then reports ErrorNotFound.
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// ChangePassword re-wraps the existing data key under a KEK derived from
// newPassword and a fresh salt. Verifier, salt and wrapped key are written
// together and every refresh token of the user is revoked.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	user, err := s.authenticate(ctx, func() (*models.User, error) {
		return repo.GetUserByID(ctx, userID)
	}, oldPassword)
	if err != nil {
		return err
	}

	dataKey, err := s.openDataKey(ctx, user, oldPassword)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(dataKey)

	salt := keywrap.GenerateSalt()
	wrapped, err := s.deriver.Seal(ctx, []byte(newPassword), salt, dataKey)
	if err != nil {
		return fmt.Errorf("error wrapping data key: %w", err)
	}

	hash, err := cryptox.HashPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	user.PasswordHash = hash
	user.KEKSalt = salt
	user.WrappedKey = wrapped

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateCredentials(ctx, user); err != nil {
			return fmt.Errorf("error updating credentials: %w", err)
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}
		return nil
	})
}

// DeleteAccount removes the user after re-checking password. Notes, refresh
// tokens and export records are removed by the database cascade.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	repo := s.repomanager.Users(s.db)
	user, err := s.authenticate(ctx, func() (*models.User, error) {
		return repo.GetUserByID(ctx, userID)
	}, password)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
