package pagecraft

import (
	"context"

	"github.com/pagecraft/client-go/internal/api"
)

type (
	// CreateScheduleRequest registers a recurring job.
	CreateScheduleRequest = api.CreateScheduleRequest
	// UpdateScheduleRequest changes a schedule. Nil fields are left unchanged.
	UpdateScheduleRequest = api.UpdateScheduleRequest
	// ScheduleInfo is a recurring job.
	ScheduleInfo = api.Schedule
	// ScheduleList is one page of schedules.
	ScheduleList = api.Page[ScheduleInfo]
	// ListOptions selects a page of a list endpoint.
	ListOptions = api.ListOptions
)

// Schedules manages recurring scrape, PDF and screenshot jobs.
type Schedules interface {
	// Create registers a new schedule.
	Create(ctx context.Context, req *CreateScheduleRequest, opts ...RequestOption) (*ScheduleInfo, error)

	// List returns a page of schedules. list may be nil.
	List(ctx context.Context, list *ListOptions, opts ...RequestOption) (*ScheduleList, error)

	// Get returns a schedule by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (*ScheduleInfo, error)

	// Update changes a schedule.
	Update(ctx context.Context, id string, req *UpdateScheduleRequest, opts ...RequestOption) (*ScheduleInfo, error)

	// Delete removes a schedule.
	Delete(ctx context.Context, id string, opts ...RequestOption) error
}

type scheduleImpl struct {
	client *Client
}

func (s *scheduleImpl) Create(ctx context.Context, req *CreateScheduleRequest, opts ...RequestOption) (*ScheduleInfo, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.CreateSchedule(ctx, req, opts...)
}

func (s *scheduleImpl) List(ctx context.Context, list *ListOptions, opts ...RequestOption) (*ScheduleList, error) {
	if list != nil {
		if err := validateRequest(list); err != nil {
			return nil, err
		}
	}
	return s.client.apiClient.ListSchedules(ctx, list, opts...)
}

func (s *scheduleImpl) Get(ctx context.Context, id string, opts ...RequestOption) (*ScheduleInfo, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.GetSchedule(ctx, id, opts...)
}

func (s *scheduleImpl) Update(ctx context.Context, id string, req *UpdateScheduleRequest, opts ...RequestOption) (*ScheduleInfo, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.UpdateSchedule(ctx, id, req, opts...)
}

func (s *scheduleImpl) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireID(id, "id"); err != nil {
		return err
	}
	return s.client.apiClient.DeleteSchedule(ctx, id, opts...)
}
