package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mailer"
)

func TestMeetLinkSend(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	bookingID, userID := primitive.NewObjectID(), primitive.NewObjectID()

	userDoc := bson.D{
		{Key: "_id", Value: userID},
		{Key: "full_name", Value: "Jane"},
		{Key: "email", Value: "jane@example.com"},
	}

	newService := func(mt *mtest.T, mail mailer.Service) *MeetLinkService {
		return NewMeetLinkService(NewBookingService(mt.DB), NewUserService(mt.DB), mail, discardLogger())
	}

	mt.Run("sends to booking user", func(mt *mtest.T) {
		mail := &mailer.Mock{}
		s := newService(mt, mail)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch, bookingDoc(bookingID, userID)),
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, userDoc),
		)

		email, err := s.Send(mt.Context(), MeetLinkRequest{BookingID: bookingID.Hex(), MeetLink: "https://meet.google.com/abc-defg-hij"})
		require.NoError(mt, err)
		assert.Equal(mt, "jane@example.com", email)

		require.Len(mt, mail.Sent, 1)
		sent := mail.Sent[0]
		assert.Equal(mt, []string{"jane@example.com"}, sent.To)
		assert.Equal(mt, "Google Meet Link for Your Session", sent.Subject)
		assert.Contains(mt, sent.TextBody, "https://meet.google.com/abc-defg-hij")
		assert.Contains(mt, sent.TextBody, "2025-03-04")
		assert.Equal(mt, []string{"jane@example.com"}, mail.Recipients())
		assert.Contains(mt, mail.Messages[0], "Subject: Google Meet Link for Your Session\r\n")
	})

	mt.Run("booking missing", func(mt *mtest.T) {
		mail := &mailer.Mock{}
		s := newService(mt, mail)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch))

		_, err := s.Send(mt.Context(), MeetLinkRequest{BookingID: bookingID.Hex(), MeetLink: "https://meet.google.com/x"})
		assert.True(mt, apperr.IsKind(err, apperr.NotFound))
		assert.Empty(mt, mail.Sent)
	})

	mt.Run("user missing", func(mt *mtest.T) {
		s := newService(mt, &mailer.Mock{})
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch, bookingDoc(bookingID, userID)),
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch),
		)

		_, err := s.Send(mt.Context(), MeetLinkRequest{BookingID: bookingID.Hex(), MeetLink: "https://meet.google.com/x"})
		assert.True(mt, apperr.IsKind(err, apperr.NotFound))
		assert.Equal(mt, "user not found", apperr.PublicMessage(err))
	})

	mt.Run("delivery failure", func(mt *mtest.T) {
		s := newService(mt, &mailer.Mock{Err: errors.New("smtp down")})
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch, bookingDoc(bookingID, userID)),
			mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, userDoc),
		)

		_, err := s.Send(mt.Context(), MeetLinkRequest{BookingID: bookingID.Hex(), MeetLink: "https://meet.google.com/x"})
		assert.Equal(mt, 500, apperr.HTTPStatus(err))
	})
}
