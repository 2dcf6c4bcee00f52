package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

func bookingDoc(id, userID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user_id", Value: userID},
		{Key: "therapist_id", Value: primitive.NewObjectID()},
		{Key: "session_date", Value: "2025-03-04"},
		{Key: "session_time", Value: "14:30:00"},
		{Key: "booking_status", Value: "Pending"},
		{Key: "created_at", Value: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestBookingService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create defaults status", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b, err := s.CreateBooking(mt.Context(), &models.Booking{
			UserID:      primitive.NewObjectID(),
			TherapistID: primitive.NewObjectID(),
			SessionDate: "2025-03-04",
			SessionTime: "14:30:00",
		})
		require.NoError(mt, err)
		assert.False(mt, b.ID.IsZero())
		assert.Equal(mt, models.BookingPending, b.BookingStatus)
		assert.False(mt, b.CreatedAt.IsZero())
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := s.CreateBooking(mt.Context(), &models.Booking{})
		assert.True(mt, apperr.IsKind(err, apperr.Conflict))
	})

	mt.Run("list", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch,
			bookingDoc(primitive.NewObjectID(), userID),
			bookingDoc(primitive.NewObjectID(), userID),
		))

		list, err := s.BookingList(mt.Context(), 2)
		require.NoError(mt, err)
		assert.Len(mt, list, 2)
		assert.Equal(mt, userID, list[0].UserID)
	})

	mt.Run("list empty is not nil", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch))

		list, err := s.BookingList(mt.Context(), 0)
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("get", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		id, userID := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch, bookingDoc(id, userID)))

		b, err := s.GetBooking(mt.Context(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, b.ID)
		assert.Equal(mt, "14:30:00", b.SessionTime)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch))

		_, err := s.GetBooking(mt.Context(), primitive.NewObjectID())
		assert.True(mt, apperr.IsKind(err, apperr.NotFound))
		assert.Equal(mt, "booking not found", apperr.PublicMessage(err))
	})

	mt.Run("update", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		id, userID := primitive.NewObjectID(), primitive.NewObjectID()
		updated := bookingDoc(id, userID)
		updated[5] = bson.E{Key: "booking_status", Value: "Confirmed"}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: updated},
			bson.E{Key: "lastErrorObject", Value: bson.D{{Key: "n", Value: 1}, {Key: "updatedExisting", Value: true}}},
		))

		b, err := s.UpdateBooking(mt.Context(), id, &models.Booking{BookingStatus: "Confirmed"})
		require.NoError(mt, err)
		assert.Equal(mt, "Confirmed", b.BookingStatus)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: nil},
			bson.E{Key: "lastErrorObject", Value: bson.D{{Key: "n", Value: 0}}},
		))

		_, err := s.UpdateBooking(mt.Context(), primitive.NewObjectID(), &models.Booking{})
		assert.True(mt, apperr.IsKind(err, apperr.NotFound))
	})

	mt.Run("delete", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, s.DeleteBooking(mt.Context(), primitive.NewObjectID()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		s := NewBookingService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := s.DeleteBooking(mt.Context(), primitive.NewObjectID())
		assert.True(mt, apperr.IsKind(err, apperr.NotFound))
	})
}

func TestTherapistServiceDefaultsAvailability(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("available unless told otherwise", func(mt *mtest.T) {
		s := NewTherapistService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		th, err := s.CreateTherapist(mt.Context(), &models.Therapist{UserID: primitive.NewObjectID(), FullName: "Dr. A"})
		require.NoError(mt, err)
		require.NotNil(mt, th.Availability)
		assert.True(mt, *th.Availability)

		off := false
		th, err = s.CreateTherapist(mt.Context(), &models.Therapist{UserID: primitive.NewObjectID(), FullName: "Dr. B", Availability: &off})
		require.NoError(mt, err)
		assert.False(mt, *th.Availability)
	})
}

func TestUserServiceNormalisesEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		s := NewUserService(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := s.CreateUser(mt.Context(), &models.User{FullName: "Jane", Email: "  Jane@Example.COM "})
		require.NoError(mt, err)
		assert.Equal(mt, "jane@example.com", u.Email)
		assert.Equal(mt, models.RoleUser, u.Role)
	})
}
