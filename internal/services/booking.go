package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

type BookingService struct {
	bookings collection[models.Booking]
}

func NewBookingService(db *mongo.Database) *BookingService {
	return &BookingService{bookings: newCollection[models.Booking](db, "bookings", "booking", true)}
}

func (s *BookingService) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	b.ID = primitive.NewObjectID()
	if b.BookingStatus == "" {
		b.BookingStatus = models.BookingPending
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	if _, err := s.bookings.insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// BookingList returns bookings, at most limit of them when limit > 0.
func (s *BookingService) BookingList(ctx context.Context, limit int64) ([]models.Booking, error) {
	return s.bookings.list(ctx, nil, limit)
}

func (s *BookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return s.bookings.get(ctx, id)
}

func (s *BookingService) UpdateBooking(ctx context.Context, id primitive.ObjectID, b *models.Booking) (*models.Booking, error) {
	if b.BookingStatus == "" {
		b.BookingStatus = models.BookingPending
	}
	return s.bookings.replace(ctx, id, b)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	return s.bookings.remove(ctx, id)
}
