package client

import (
	"context"

	"github.com/dmitrijs2005/shipagency/internal/models"
)

// Client is the API surface the CLI depends on.
type Client interface {
	Token() string
	SetToken(token string)

	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	Me(ctx context.Context) (*models.User, error)
	CleanupUsers(ctx context.Context) (int64, error)
	Health(ctx context.Context) (*Health, error)

	ListVessels(ctx context.Context) ([]*models.Vessel, error)
	GetVessel(ctx context.Context, id string) (*models.Vessel, error)
	CreateVessel(ctx context.Context, in models.VesselInput) (*models.Vessel, error)
	UpdateVessel(ctx context.Context, id string, patch models.VesselPatch) (*models.Vessel, error)
	DeleteVessel(ctx context.Context, id string) error

	SendServiceNotification(ctx context.Context, req models.ServiceNotificationRequest) (*models.NotificationResult, error)
	SendCustomNotification(ctx context.Context, req models.CustomNotificationRequest) (*models.NotificationResult, error)

	WatchEvents(ctx context.Context, fn func(models.Event)) error
}

// Health is the /api/health body.
type Health struct {
	Status   string `json:"status"`
	Database struct {
		State     string `json:"state"`
		Connected bool   `json:"connected"`
	} `json:"database"`
	API string `json:"api"`
}
