package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type UserService struct {
	users collection[models.User]
	auth  *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{
		users: newCollection[models.User](db, "users", "user", true),
		auth:  db.Collection("authentication"),
	}
}

// EnsureIndexes makes email unique across users and credentials.
func (s *UserService) EnsureIndexes(ctx context.Context) error {
	unique := mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := s.users.coll.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	if _, err := s.auth.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("create authentication index: %w", err)
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if _, err := s.users.insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UserList(ctx context.Context, limit int64) ([]models.User, error) {
	return s.users.list(ctx, nil, limit)
}

// GetUser by id
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.get(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, user *models.User) (*models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return s.users.replace(ctx, id, user)
}

// DeleteUser removes the user and its credentials.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.remove(ctx, id); err != nil {
		return err
	}
	if _, err := s.auth.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return apperr.PersistenceErr(fmt.Errorf("delete credentials of user %s: %w", id.Hex(), err))
	}
	return nil
}
