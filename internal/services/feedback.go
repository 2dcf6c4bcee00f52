package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type FeedbackService struct {
	feedback collection[models.Feedback]
}

func NewFeedbackService(db *mongo.Database) *FeedbackService {
	return &FeedbackService{feedback: newCollection[models.Feedback](db, "feedback", "feedback", false)}
}

func (s *FeedbackService) CreateFeedback(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	f.ID = primitive.NewObjectID()
	f.CreatedAt = time.Now()

	if _, err := s.feedback.insert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) FeedbackList(ctx context.Context, limit int64) ([]models.Feedback, error) {
	return s.feedback.list(ctx, nil, limit)
}

// FeedbackForSession lists the feedback left on one session.
func (s *FeedbackService) FeedbackForSession(ctx context.Context, sessionID primitive.ObjectID) ([]models.Feedback, error) {
	return s.feedback.list(ctx, bson.M{"session_id": sessionID}, 0)
}

func (s *FeedbackService) GetFeedback(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	return s.feedback.get(ctx, id)
}

func (s *FeedbackService) UpdateFeedback(ctx context.Context, id primitive.ObjectID, f *models.Feedback) (*models.Feedback, error) {
	return s.feedback.replace(ctx, id, f)
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, id primitive.ObjectID) error {
	return s.feedback.remove(ctx, id)
}
