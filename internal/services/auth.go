package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

const tokenTTL = 24 * time.Hour

var errInvalidCredentials = apperr.UnauthorizedErr("Invalid email or password")

type RegisterRequest struct {
	FullName string      `json:"full_name" validate:"required,max=255"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=admin therapist user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Claims are carried in the bearer tokens issued at login.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  *UserService
	auth   *mongo.Collection
	secret []byte
	now    func() time.Time
}

func NewAuthService(db *mongo.Database, users *UserService, secret string) *AuthService {
	return &AuthService{
		users:  users,
		auth:   db.Collection("authentication"),
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Register creates the user and its credentials.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(fmt.Errorf("hash password: %w", err))
	}

	user, err := s.users.CreateUser(ctx, &models.User{FullName: req.FullName, Email: req.Email, Role: req.Role})
	if err != nil {
		return nil, err
	}

	cred := models.Authentication{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Email:     user.Email,
		HPassword: string(hash),
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
	if _, err := s.auth.InsertOne(ctx, cred); err != nil {
		_ = s.users.users.remove(ctx, user.ID)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ConflictErr("user already exists")
		}
		return nil, apperr.PersistenceErr(fmt.Errorf("insert credentials: %w", err))
	}
	return user, nil
}

// Login checks the password and returns a signed token with the user.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *models.User, error) {
	var cred models.Authentication
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.auth.FindOne(ctx, bson.M{"email": email}).Decode(&cred); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, apperr.PersistenceErr(fmt.Errorf("fetch credentials: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.HPassword), []byte(req.Password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	user, err := s.users.GetUser(ctx, cred.UserID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Wrap(fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns its claims.
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, apperr.UnauthorizedErr("Invalid token")
	}
	return claims, nil
}
