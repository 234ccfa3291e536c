package service

import (
	"context"
	"strings"
	"time"

	"cafe-site/internal/model"

	"github.com/rs/zerolog"
)

// reservationService implements ReservationService.
type reservationService struct {
	store  Store
	newID  idFunc
	now    clock
	logger zerolog.Logger
}

// NewReservationService creates a new reservation service.
func NewReservationService(st Store, logger zerolog.Logger) ReservationService {
	return &reservationService{
		store:  st,
		newID:  NewID,
		now:    time.Now,
		logger: logger.With().Str("service", "reservation").Logger(),
	}
}

// Submit records a new pending reservation.
func (s *reservationService) Submit(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	if err := validateReservationRequest(req); err != nil {
		s.logger.Debug().Err(err).Msg("reservation request rejected")
		return nil, err
	}

	r := model.Reservation{
		ID:        s.newID("res"),
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Date:      req.Date,
		Time:      req.Time,
		Guests:    req.Guests,
		Notes:     req.Notes,
		Status:    model.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	s.store.AddReservation(r)

	s.logger.Info().
		Str("reservation_id", r.ID).
		Str("date", r.Date).
		Str("time", r.Time).
		Int("guests", r.Guests).
		Msg("reservation submitted")

	return &r, nil
}

// List returns reservations, optionally filtered by status.
func (s *reservationService) List(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	all := s.store.Snapshot().Reservations
	if status == "" {
		return all, nil
	}
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	out := make([]model.Reservation, 0, len(all))
	for _, r := range all {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// Stats counts reservations per status.
func (s *reservationService) Stats(ctx context.Context) model.ReservationStats {
	all := s.store.Snapshot().Reservations

	stats := model.ReservationStats{Total: len(all)}
	for _, r := range all {
		switch r.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusConfirmed:
			stats.Confirmed++
		case model.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// SetStatus changes the status of a reservation.
func (s *reservationService) SetStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	r, ok := s.store.Snapshot().Reservation(id)
	if !ok {
		s.logger.Debug().Str("reservation_id", id).Msg("reservation not found")
		return nil, model.ErrReservationNotFound
	}

	previous := r.Status
	r.Status = status
	s.store.UpdateReservation(r)

	s.logger.Info().
		Str("reservation_id", id).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("reservation status changed")

	return &r, nil
}

// Delete removes a reservation.
func (s *reservationService) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Snapshot().Reservation(id); !ok {
		return model.ErrReservationNotFound
	}

	s.store.DeleteReservation(id)
	s.logger.Info().Str("reservation_id", id).Msg("reservation deleted")

	return nil
}

func validateReservationRequest(req *model.ReservationRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is required")
	}

	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"phone", req.Phone},
		{"date", req.Date},
		{"time", req.Time},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return model.NewValidationError(r.field, "is required")
		}
	}

	if req.Guests < 1 {
		return model.ErrInvalidGuests
	}
	return nil
}
