package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type DiagnosticService struct {
	diagnostics collection[models.Diagnostic]
}

func NewDiagnosticService(db *mongo.Database) *DiagnosticService {
	return &DiagnosticService{diagnostics: newCollection[models.Diagnostic](db, "diagnostics", "diagnostic", true)}
}

func (s *DiagnosticService) CreateDiagnostic(ctx context.Context, d *models.Diagnostic) (*models.Diagnostic, error) {
	d.ID = primitive.NewObjectID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt

	if _, err := s.diagnostics.insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DiagnosticService) DiagnosticList(ctx context.Context, limit int64) ([]models.Diagnostic, error) {
	return s.diagnostics.list(ctx, nil, limit)
}

func (s *DiagnosticService) GetDiagnostic(ctx context.Context, id primitive.ObjectID) (*models.Diagnostic, error) {
	return s.diagnostics.get(ctx, id)
}

func (s *DiagnosticService) UpdateDiagnostic(ctx context.Context, id primitive.ObjectID, d *models.Diagnostic) (*models.Diagnostic, error) {
	return s.diagnostics.replace(ctx, id, d)
}

func (s *DiagnosticService) DeleteDiagnostic(ctx context.Context, id primitive.ObjectID) error {
	return s.diagnostics.remove(ctx, id)
}
