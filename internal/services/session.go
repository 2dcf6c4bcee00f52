package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type SessionService struct {
	sessions collection[models.Session]
}

func NewSessionService(db *mongo.Database) *SessionService {
	return &SessionService{sessions: newCollection[models.Session](db, "sessions", "session", true)}
}

func (s *SessionService) CreateSession(ctx context.Context, sess *models.Session) (*models.Session, error) {
	sess.ID = primitive.NewObjectID()
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt

	if _, err := s.sessions.insert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) SessionList(ctx context.Context, limit int64) ([]models.Session, error) {
	return s.sessions.list(ctx, nil, limit)
}

func (s *SessionService) GetSession(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	return s.sessions.get(ctx, id)
}

func (s *SessionService) UpdateSession(ctx context.Context, id primitive.ObjectID, sess *models.Session) (*models.Session, error) {
	return s.sessions.replace(ctx, id, sess)
}

func (s *SessionService) DeleteSession(ctx context.Context, id primitive.ObjectID) error {
	return s.sessions.remove(ctx, id)
}
