package pagecraft

import (
	"context"

	"github.com/pagecraft/client-go/internal/api"
)

type (
	// CreateMonitorRequest starts watching a page for changes.
	CreateMonitorRequest = api.CreateMonitorRequest
	// UpdateMonitorRequest changes a monitor. Nil fields are left unchanged.
	UpdateMonitorRequest = api.UpdateMonitorRequest
	// Monitor watches a page for changes.
	Monitor = api.Monitor
	// MonitorList is one page of monitors.
	MonitorList = api.Page[Monitor]
	// MonitorCheck is one comparison run.
	MonitorCheck = api.MonitorCheck
	// MonitorCheckList is one page of checks.
	MonitorCheckList = api.Page[MonitorCheck]
	// MonitorAlert is a notification sent for a detected change.
	MonitorAlert = api.MonitorAlert
	// MonitorAlertList is one page of alerts.
	MonitorAlertList = api.Page[MonitorAlert]
	// CreateChannelRequest registers a notification channel.
	CreateChannelRequest = api.CreateChannelRequest
	// NotificationChannel delivers monitor alerts.
	NotificationChannel = api.NotificationChannel
)

// MonitorStatus is the state of a monitor.
type MonitorStatus = api.MonitorStatus

// Monitor states.
const (
	MonitorActive = api.MonitorActive
	MonitorPaused = api.MonitorPaused
)

// Monitoring watches pages for changes and delivers alerts.
type Monitoring interface {
	Create(ctx context.Context, req *CreateMonitorRequest, opts ...RequestOption) (*Monitor, error)
	List(ctx context.Context, list *ListOptions, opts ...RequestOption) (*MonitorList, error)
	Get(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error)
	Update(ctx context.Context, id string, req *UpdateMonitorRequest, opts ...RequestOption) (*Monitor, error)
	Delete(ctx context.Context, id string, opts ...RequestOption) error

	// Pause stops scheduled checks until Resume is called.
	Pause(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error)
	Resume(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error)

	// CheckNow runs a comparison immediately, outside the monitor's interval.
	CheckNow(ctx context.Context, id string, opts ...RequestOption) (*MonitorCheck, error)
	Checks(ctx context.Context, id string, list *ListOptions, opts ...RequestOption) (*MonitorCheckList, error)
	Alerts(ctx context.Context, id string, list *ListOptions, opts ...RequestOption) (*MonitorAlertList, error)

	ListChannels(ctx context.Context, opts ...RequestOption) ([]NotificationChannel, error)
	CreateChannel(ctx context.Context, req *CreateChannelRequest, opts ...RequestOption) (*NotificationChannel, error)
	DeleteChannel(ctx context.Context, id string, opts ...RequestOption) error
}

type monitoringImpl struct {
	client *Client
}

func (s *monitoringImpl) Create(ctx context.Context, req *CreateMonitorRequest, opts ...RequestOption) (*Monitor, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.CreateMonitor(ctx, req, opts...)
}

func (s *monitoringImpl) List(ctx context.Context, list *ListOptions, opts ...RequestOption) (*MonitorList, error) {
	if list != nil {
		if err := validateRequest(list); err != nil {
			return nil, err
		}
	}
	return s.client.apiClient.ListMonitors(ctx, list, opts...)
}

func (s *monitoringImpl) Get(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.GetMonitor(ctx, id, opts...)
}

func (s *monitoringImpl) Update(ctx context.Context, id string, req *UpdateMonitorRequest, opts ...RequestOption) (*Monitor, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.UpdateMonitor(ctx, id, req, opts...)
}

func (s *monitoringImpl) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireID(id, "id"); err != nil {
		return err
	}
	return s.client.apiClient.DeleteMonitor(ctx, id, opts...)
}

func (s *monitoringImpl) Pause(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error) {
	return s.setState(ctx, id, "pause", opts)
}

func (s *monitoringImpl) Resume(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error) {
	return s.setState(ctx, id, "resume", opts)
}

func (s *monitoringImpl) setState(ctx context.Context, id, action string, opts []RequestOption) (*Monitor, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.SetMonitorState(ctx, id, action, opts...)
}

func (s *monitoringImpl) CheckNow(ctx context.Context, id string, opts ...RequestOption) (*MonitorCheck, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.CheckMonitorNow(ctx, id, opts...)
}

func (s *monitoringImpl) Checks(ctx context.Context, id string, list *ListOptions, opts ...RequestOption) (*MonitorCheckList, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.ListMonitorChecks(ctx, id, list, opts...)
}

func (s *monitoringImpl) Alerts(ctx context.Context, id string, list *ListOptions, opts ...RequestOption) (*MonitorAlertList, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.ListMonitorAlerts(ctx, id, list, opts...)
}

func (s *monitoringImpl) ListChannels(ctx context.Context, opts ...RequestOption) ([]NotificationChannel, error) {
	return s.client.apiClient.ListChannels(ctx, opts...)
}

func (s *monitoringImpl) CreateChannel(ctx context.Context, req *CreateChannelRequest, opts ...RequestOption) (*NotificationChannel, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.CreateChannel(ctx, req, opts...)
}

func (s *monitoringImpl) DeleteChannel(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireID(id, "id"); err != nil {
		return err
	}
	return s.client.apiClient.DeleteChannel(ctx, id, opts...)
}
