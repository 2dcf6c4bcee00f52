package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

// ResourceService manages self-help resources.
type ResourceService struct {
	resources collection[models.Resource]
}

func NewResourceService(db *mongo.Database) *ResourceService {
	return &ResourceService{resources: newCollection[models.Resource](db, "resources", "resource", true)}
}

func (s *ResourceService) CreateResource(ctx context.Context, res *models.Resource) (*models.Resource, error) {
	res.ID = primitive.NewObjectID()
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt

	if _, err := s.resources.insert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResourceService) ResourceList(ctx context.Context, limit int64) ([]models.Resource, error) {
	return s.resources.list(ctx, nil, limit)
}

func (s *ResourceService) GetResource(ctx context.Context, id primitive.ObjectID) (*models.Resource, error) {
	return s.resources.get(ctx, id)
}

func (s *ResourceService) UpdateResource(ctx context.Context, id primitive.ObjectID, res *models.Resource) (*models.Resource, error) {
	return s.resources.replace(ctx, id, res)
}

func (s *ResourceService) DeleteResource(ctx context.Context, id primitive.ObjectID) error {
	return s.resources.remove(ctx, id)
}
