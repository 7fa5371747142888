// Package service holds the business rules between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"sideeffect/internal/models"
	"sideeffect/internal/repository"
	"sideeffect/internal/security/oauth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLen  = 8
	maxNicknameLen  = 20
	maxIntroLen     = 500
	nicknameRetries = 5
)

var errBadCredentials = errors.New("invalid email or password")

type UserService struct {
	userRepo repository.UserRepository
}

type JoinInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Nickname     string `json:"nickname"`
	Introduction string `json:"introduction"`
	ImgURL       string `json:"imgUrl"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Join registers a local account with a bcrypt-hashed password.
func (s *UserService) Join(ctx context.Context, in JoinInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	nickname := strings.TrimSpace(in.Nickname)

	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, models.NewValidationError("Invalid email")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return nil, models.NewValidationError(fmt.Sprintf("Password too short (min %d characters)", minPasswordLen))
	}
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Introduction) > maxIntroLen {
		return nil, models.NewValidationError("Introduction too long (max 500 characters)")
	}

	if taken, err := s.userRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewConflictError("Email already in use")
	}
	if taken, err := s.userRepo.ExistsByNickname(ctx, nickname); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewConflictError("Nickname already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:        &email,
		Password:     string(hash),
		Nickname:     nickname,
		Role:         models.RoleUser,
		Provider:     models.ProviderLocal,
		Introduction: in.Introduction,
		ImgURL:       in.ImgURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Email or nickname already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, models.NewValidationError("Email is required")
	}
	return s.userRepo.ExistsByEmail(ctx, email)
}

func (s *UserService) IsNicknameTaken(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, models.NewValidationError("Nickname is required")
	}
	return s.userRepo.ExistsByNickname(ctx, nickname)
}

// Authenticate checks form-login credentials. Every mismatch is reported as the same LOGIN_FAILED error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewLoginFailedError(errBadCredentials)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewLoginFailedError(errBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if user.Provider != models.ProviderLocal || user.Password == "" {
		return nil, models.NewLoginFailedError(errBadCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewLoginFailedError(errBadCredentials)
	}
	return user, nil
}

var _ oauth.UserLinker = (*UserService)(nil)

// FindOrCreateSocial returns the account linked to the provider identity, creating it on first login.
func (s *UserService) FindOrCreateSocial(ctx context.Context, p oauth.Profile) (*models.User, error) {
	user, err := s.userRepo.GetBySocial(ctx, p.Provider, p.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	nickname, err := s.freeNickname(ctx, p)
	if err != nil {
		return nil, err
	}
	socialID := p.ExternalID
	user = &models.User{
		Nickname: nickname,
		Role:     models.RoleUser,
		Provider: p.Provider,
		SocialID: &socialID,
	}
	if email := strings.ToLower(strings.TrimSpace(p.Email)); email != "" {
		taken, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if !taken {
			user.Email = &email
		}
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// freeNickname picks the profile nickname, or a suffixed variant when it is taken.
func (s *UserService) freeNickname(ctx context.Context, p oauth.Profile) (string, error) {
	base := strings.TrimSpace(p.Nickname)
	if base == "" {
		base = p.Provider + "_" + p.ExternalID
	}
	base = truncateRunes(base, maxNicknameLen-9)

	candidate := base
	for range nicknameRetries {
		taken, err := s.userRepo.ExistsByNickname(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "_" + uuid.NewString()[:8]
	}
	return "", models.NewConflictError("Could not allocate a nickname")
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// MyPage loads the user with their live free boards and recruit boards.
func (s *UserService) MyPage(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetMyPage(ctx, id)
}

// Update applies patch to the user; absent fields keep their value.
func (s *UserService) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Nickname != nil {
		nickname := strings.TrimSpace(*patch.Nickname)
		if err := validateNickname(nickname); err != nil {
			return nil, err
		}
		if nickname != user.Nickname {
			taken, err := s.userRepo.ExistsByNickname(ctx, nickname)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, models.NewConflictError("Nickname already in use")
			}
		}
		patch.Nickname = &nickname
	}
	if patch.Introduction != nil && utf8.RuneCountInString(*patch.Introduction) > maxIntroLen {
		return nil, models.NewValidationError("Introduction too long (max 500 characters)")
	}

	patch.Apply(user)
	if err := s.userRepo.UpdateColumns(ctx, user, patch.Columns()...); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Nickname already in use")
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the account and everything it owns.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}

func validateNickname(nickname string) error {
	if nickname == "" {
		return models.NewValidationError("Nickname is required")
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return models.NewValidationError("Nickname too long (max 20 characters)")
	}
	return nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
