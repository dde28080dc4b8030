package service

import (
	"context"

	"github.com/JokerTrickster/weather-alarm/internal/adapter/api"
	"github.com/JokerTrickster/weather-alarm/internal/domain"
)

// Alarms maps alarm CRUD onto the backend endpoints. It holds no state;
// the alarms context owns the local list.
type Alarms struct {
	client *api.Client
}

// NewAlarms creates the alarms service.
func NewAlarms(client *api.Client) *Alarms {
	return &Alarms{client: client}
}

// List fetches the user's full alarm list.
func (s *Alarms) List(ctx context.Context) ([]domain.Alarm, error) {
	var alarms []domain.Alarm
	if err := s.client.Get(ctx, epAlarms, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// Create registers a new alarm and returns the server's record of it.
func (s *Alarms) Create(ctx context.Context, req domain.CreateAlarmRequest) (domain.Alarm, error) {
	req.RepeatDays = domain.NormalizeRepeatDays(req.RepeatDays)
	var alarm domain.Alarm
	if err := s.client.Post(ctx, epAlarms, req, &alarm); err != nil {
		return domain.Alarm{}, err
	}
	return alarm, nil
}

// Update applies a partial update and returns the server's new record.
func (s *Alarms) Update(ctx context.Context, req domain.UpdateAlarmRequest) (domain.Alarm, error) {
	if req.RepeatDays != nil {
		req.RepeatDays = domain.NormalizeRepeatDays(req.RepeatDays)
	}
	var alarm domain.Alarm
	if err := s.client.Put(ctx, epAlarm(req.ID), req, &alarm); err != nil {
		return domain.Alarm{}, err
	}
	return alarm, nil
}

// Delete removes an alarm.
func (s *Alarms) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, epAlarm(id))
}

// Toggle flips the enabled flag and returns the server's new record.
func (s *Alarms) Toggle(ctx context.Context, id string, enabled bool) (domain.Alarm, error) {
	var alarm domain.Alarm
	body := map[string]bool{"enabled": enabled}
	if err := s.client.Put(ctx, epAlarmToggle(id), body, &alarm); err != nil {
		return domain.Alarm{}, err
	}
	return alarm, nil
}
