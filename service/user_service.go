package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mosakai/sns-sdk/models"
	"github.com/mosakai/sns-sdk/response"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	*Service
	userDao       *models.UserDAO
	tokenService  *TokenService
	loginTokenTTL time.Duration
}

func NewUserService(s *Service) *UserService {
	return &UserService{
		Service:       s,
		userDao:       models.NewUserDAO(s.DB),
		tokenService:  NewTokenService(s.RDB),
		loginTokenTTL: 7 * 24 * time.Hour,
	}
}

// --- types ---

// UserDTO 用户信息（脱敏，带冗余计数）
type UserDTO struct {
	ID             uint64    `json:"id"`
	UID            string    `json:"uid"`
	Username       string    `json:"username"`
	Nickname       string    `json:"nickname"`
	Avatar         string    `json:"avatar"`
	Bio            string    `json:"bio"`
	Gender         uint8     `json:"gender"`
	FollowersCount uint64    `json:"followers_count"`
	FollowingCount uint64    `json:"following_count"`
	PostsCount     uint64    `json:"posts_count"`
	Status         uint8     `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResp struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func toUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:             u.ID,
		UID:            u.UID,
		Username:       u.Username,
		Nickname:       u.Nickname,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		Gender:         u.Gender,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		Status:         u.Status,
		CreatedAt:      u.CreatedAt,
	}
}

// Register 注册（用户名唯一性校验 + 写库）
func (s *UserService) Register(req RegisterReq) (*UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, &Error{response.CodeParamError, "输入账号"}
	}
	password := strings.TrimSpace(req.Password)
	if password == "" {
		return nil, &Error{response.CodeParamError, "输入密码"}
	}

	exists, err := s.userDao.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &Error{response.CodeConflict, "用户名已存在"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UID:      uuid.New().String(),
		Username: username,
		Nickname: strings.TrimSpace(req.Nickname),
		Password: string(hash),
	}
	if user.Nickname == "" {
		user.Nickname = user.Username
	}

	if err := s.userDao.Create(user); err != nil {
		if isDuplicateKey(err) {
			return nil, &Error{response.CodeConflict, "用户名已存在"}
		}
		return nil, err
	}
	return toUserDTO(user), nil
}

// Login 登录并写 Redis token，返回 token + 用户信息
func (s *UserService) Login(ctx context.Context, req LoginReq) (*LoginResp, error) {
	u, err := s.userDao.FindByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{response.CodePasswordError, "账户或密码无效"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(strings.TrimSpace(req.Password))); err != nil {
		return nil, &Error{response.CodePasswordError, "账户或密码无效"}
	}
	if u.Status == models.UserStatusDisabled {
		return nil, ErrTargetDisabled
	}

	resp := &LoginResp{User: *toUserDTO(u)}
	if s.RDB == nil {
		return resp, nil
	}

	token, err := s.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokenService.StoreToken(ctx, token, u.ID, s.loginTokenTTL); err != nil {
		return nil, err
	}
	resp.Token = token
	return resp, nil
}

// GetUser 获取用户信息（脱敏，计数直接读存储层冗余字段）
func (s *UserService) GetUser(userID uint64) (*UserDTO, error) {
	u, err := s.userDao.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserDTO(u), nil
}
