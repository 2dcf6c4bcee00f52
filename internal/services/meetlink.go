package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mailer"
)

const meetLinkSubject = "Google Meet Link for Your Session"

type MeetLinkRequest struct {
	BookingID string `json:"bookingId" validate:"required,objectid"`
	MeetLink  string `json:"meetLink" validate:"required,url"`
}

// MeetLinkService mails a booking's user the video link for the session.
type MeetLinkService struct {
	bookings *BookingService
	users    *UserService
	mail     mailer.Service
	logger   *slog.Logger
}

func NewMeetLinkService(bookings *BookingService, users *UserService, mail mailer.Service, logger *slog.Logger) *MeetLinkService {
	return &MeetLinkService{bookings: bookings, users: users, mail: mail, logger: logger}
}

// Send returns the address the link was sent to.
func (s *MeetLinkService) Send(ctx context.Context, req MeetLinkRequest) (string, error) {
	bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
	if err != nil {
		return "", apperr.InvalidErr("Invalid ID", []apperr.FieldIssue{{Field: "bookingId", Message: "Invalid id"}})
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetUser(ctx, booking.UserID)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf("Hello %s,\n\nHere is your Google Meet link for the session on %s at %s:\n\n%s\n",
		user.FullName, booking.SessionDate, booking.SessionTime, req.MeetLink)
	err = s.mail.Send(ctx, mailer.Email{
		To:       []string{user.Email},
		Subject:  meetLinkSubject,
		TextBody: body,
	})
	if err != nil {
		return "", apperr.Wrap(fmt.Errorf("send meet link for booking %s: %w", bookingID.Hex(), err))
	}

	s.logger.InfoContext(ctx, "meet link sent", "booking", bookingID.Hex(), "user", user.ID.Hex())
	return user.Email, nil
}
