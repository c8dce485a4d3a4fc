package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// AuthService 注册、登录与令牌校验
type AuthService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService 创建 AuthService，cost 非法时使用 bcrypt 默认值
func NewAuthService(users repository.UserRepository, bcryptCost int, logger *logrus.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult 登录/注册返回
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// newTokenKey 64 位十六进制
func newTokenKey() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func validateRegistration(req RegisterRequest) error {
	if !govalidator.StringLength(req.Username, "3", "150") || !govalidator.Matches(req.Username, `^[\w.@+-]+$`) {
		return apperr.InvalidPayload("username must be 3-150 characters: letters, digits and @.+-_")
	}
	if !govalidator.IsEmail(req.Email) {
		return apperr.InvalidPayload("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return apperr.InvalidPayload("password must have at least %d characters", minPasswordLength)
	}
	if govalidator.IsNumeric(req.Password) {
		return apperr.InvalidPayload("password must not be entirely numeric")
	}
	return nil
}

// Register 创建用户、默认资料和令牌
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRegistration(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Conflict("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}
	user := &model.User{Username: req.Username, Email: req.Email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	profile := &model.UserProfile{UserID: user.ID, AlertsEnabled: true, AlertEmail: user.Email}
	if err := profile.SetFavorites(nil, nil); err != nil {
		return nil, err
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("创建用户资料失败: %w", err)
	}
	token, err := s.users.GetOrCreateToken(ctx, user.ID, newTokenKey())
	if err != nil {
		return nil, fmt.Errorf("创建令牌失败: %w", err)
	}
	s.logger.WithField("username", user.Username).Info("新用户注册")
	return &AuthResult{User: user, Token: token.Key}, nil
}

// Login 用户名+密码换取令牌（已有令牌则复用）
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	token, err := s.users.GetOrCreateToken(ctx, user.ID, newTokenKey())
	if err != nil {
		return nil, fmt.Errorf("创建令牌失败: %w", err)
	}
	return &AuthResult{User: user, Token: token.Key}, nil
}

// Logout 删除令牌
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	if err := s.users.DeleteToken(ctx, userID); err != nil {
		return fmt.Errorf("删除令牌失败: %w", err)
	}
	return nil
}

// RefreshToken 作废旧令牌并签发新令牌
func (s *AuthService) RefreshToken(ctx context.Context, userID uint64) (string, error) {
	token, err := s.users.RotateToken(ctx, userID, newTokenKey())
	if err != nil {
		return "", fmt.Errorf("刷新令牌失败: %w", err)
	}
	return token.Key, nil
}

// Authenticate 令牌换用户，无效令牌返回 unauthorized
func (s *AuthService) Authenticate(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, apperr.Unauthorized("authentication credentials were not provided")
	}
	token, err := s.users.GetToken(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("invalid token")
	}
	if err != nil {
		return nil, fmt.Errorf("查询令牌失败: %w", err)
	}
	return &token.User, nil
}

// Profile 用户资料
type Profile struct {
	User            *model.User `json:"user"`
	FavoriteNumbers []int       `json:"favorite_numbers"`
	FavoriteStars   []int       `json:"favorite_stars"`
	AlertsEnabled   bool        `json:"alerts_enabled"`
	AlertEmail      string      `json:"alert_email"`
}

// Profile 读取用户与收藏设置
func (s *AuthService) Profile(ctx context.Context, userID uint64) (*Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户资料失败: %w", err)
	}
	return &Profile{
		User:            user,
		FavoriteNumbers: nonNil(p.FavoriteNumbers()),
		FavoriteStars:   nonNil(p.FavoriteStarList()),
		AlertsEnabled:   p.AlertsEnabled,
		AlertEmail:      p.AlertEmail,
	}, nil
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
