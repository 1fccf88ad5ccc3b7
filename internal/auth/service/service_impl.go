package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v4"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	"github.com/smallbiznis/tailorline/pkg/db"
	"github.com/smallbiznis/tailorline/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 12 * time.Hour

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Config config.Config
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	secret []byte
	users  repository.Repository[authdomain.User]
}

func New(p Params) authdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("auth.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		secret: []byte(p.Config.AuthJWTSecret),
		users:  repository.ProvideStore[authdomain.User](p.DB),
	}
}

type claims struct {
	jwt.RegisteredClaims
	Name string          `json:"name"`
	Role authdomain.Role `json:"role"`
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, authdomain.ErrInvalidEmail
	}

	user, err := s.users.FindOne(ctx, &authdomain.User{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &authdomain.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func (s *Service) Register(ctx context.Context, req authdomain.RegisterRequest) (*authdomain.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, authdomain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return nil, authdomain.ErrInvalidPassword
	}
	role := req.Role
	if role == "" {
		role = authdomain.RoleCustomer
	}
	if !role.Valid() {
		return nil, authdomain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &authdomain.User{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, authdomain.ErrEmailTaken
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Verify parses and validates a bearer token, returning the acting user the
// handlers pass explicitly into domain services.
func (s *Service) Verify(tokenString string) (*authdomain.ActingUser, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authdomain.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !c.Role.Valid() {
		return nil, authdomain.ErrInvalidToken
	}

	id, err := snowflake.ParseString(c.Subject)
	if err != nil {
		return nil, authdomain.ErrInvalidToken
	}

	return &authdomain.ActingUser{ID: id, Name: c.Name, Role: c.Role}, nil
}

func (s *Service) issueToken(user *authdomain.User) (string, error) {
	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Name: user.Name,
		Role: user.Role,
	})
	return token.SignedString(s.secret)
}

func toUserResponse(user *authdomain.User) authdomain.UserResponse {
	return authdomain.UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
