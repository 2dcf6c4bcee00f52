package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type TherapistService struct {
	therapists collection[models.Therapist]
}

func NewTherapistService(db *mongo.Database) *TherapistService {
	return &TherapistService{therapists: newCollection[models.Therapist](db, "therapists", "therapist", true)}
}

func (s *TherapistService) CreateTherapist(ctx context.Context, t *models.Therapist) (*models.Therapist, error) {
	t.ID = primitive.NewObjectID()
	if t.Availability == nil {
		available := true
		t.Availability = &available
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	if _, err := s.therapists.insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TherapistService) TherapistList(ctx context.Context, limit int64) ([]models.Therapist, error) {
	return s.therapists.list(ctx, nil, limit)
}

func (s *TherapistService) GetTherapist(ctx context.Context, id primitive.ObjectID) (*models.Therapist, error) {
	return s.therapists.get(ctx, id)
}

func (s *TherapistService) UpdateTherapist(ctx context.Context, id primitive.ObjectID, t *models.Therapist) (*models.Therapist, error) {
	if t.Availability == nil {
		available := true
		t.Availability = &available
	}
	return s.therapists.replace(ctx, id, t)
}

func (s *TherapistService) DeleteTherapist(ctx context.Context, id primitive.ObjectID) error {
	return s.therapists.remove(ctx, id)
}
