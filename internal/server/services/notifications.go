package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/notify"
	"github.com/dmitrijs2005/shipagency/internal/server/mailer"
	"github.com/dmitrijs2005/shipagency/internal/server/metrics"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
)

// NotificationService composes vessel e-mails and hands them to a transport.
// Delivery is attempted once.
type NotificationService struct {
	repomanager repomanager.RepositoryManager
	composer    *notify.Composer
	transport   mailer.Transport
	archiver    mailer.Archiver
	logger      logging.Logger
	now         func() time.Time
}

// NewNotificationService builds the service. archiver may be nil.
func NewNotificationService(m repomanager.RepositoryManager, c *notify.Composer, t mailer.Transport, a mailer.Archiver, l logging.Logger) *NotificationService {
	return &NotificationService{
		repomanager: m,
		composer:    c,
		transport:   t,
		archiver:    a,
		logger:      l.With("module", "notifications"),
		now:         time.Now,
	}
}

// SendService sends the standard message of one kind.
func (s *NotificationService) SendService(ctx context.Context, actor *models.User, req models.ServiceNotificationRequest) (*models.NotificationResult, error) {
	if strings.TrimSpace(req.VesselID) == "" || strings.TrimSpace(req.ServiceType) == "" {
		verr := common.NewValidationError("Vessel ID and service type are required")
		if strings.TrimSpace(req.VesselID) == "" {
			verr.Add("vesselId", "Vessel ID is required")
		}
		if strings.TrimSpace(req.ServiceType) == "" {
			verr.Add("serviceType", "Service type is required")
		}
		return nil, verr
	}

	kind, ok := notify.Lookup(req.ServiceType)
	if !ok {
		verr := common.NewValidationError("Invalid service type")
		verr.Add("serviceType", "Invalid service type")
		return nil, verr
	}

	v, err := s.repomanager.Vessels().Get(ctx, req.VesselID)
	if err != nil {
		return nil, err
	}

	msg, err := s.composer.Compose(v, kind.Key, notify.Overrides{})
	if err != nil {
		return nil, err
	}

	id, err := s.deliver(ctx, actor, msg)
	if err != nil {
		return nil, err
	}

	return &models.NotificationResult{
		Message: kind.Label + " notification email sent successfully",
		EmailID: id,
	}, nil
}

// SendCustom sends an ad-hoc message. EmailType may be a kind key, a kind
// label or free text.
func (s *NotificationService) SendCustom(ctx context.Context, actor *models.User, req models.CustomNotificationRequest) (*models.NotificationResult, error) {
	verr := common.NewValidationError("Vessel ID, email type, and recipient address are required")
	if strings.TrimSpace(req.VesselID) == "" {
		verr.Add("vesselId", "Vessel ID is required")
	}
	if strings.TrimSpace(req.EmailType) == "" {
		verr.Add("emailType", "Email type is required")
	}
	if strings.TrimSpace(req.ToAddress) == "" {
		verr.Add("toAddress", "Recipient address is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	v, err := s.repomanager.Vessels().Get(ctx, req.VesselID)
	if err != nil {
		return nil, err
	}

	ov := notify.Overrides{
		To:          req.ToAddress,
		Greeting:    req.Greeting,
		ServiceText: req.ServiceText,
		RequestText: req.RequestText,
	}
	if cc := strings.TrimSpace(req.CcAddress); cc != "" {
		ov.Cc = &cc
	}

	msg, err := s.composer.Compose(v, req.EmailType, ov)
	if err != nil {
		return nil, err
	}

	id, err := s.deliver(ctx, actor, msg)
	if err != nil {
		return nil, err
	}

	return &models.NotificationResult{
		Message: "Custom notification email sent successfully",
		EmailID: id,
	}, nil
}

func (s *NotificationService) deliver(ctx context.Context, actor *models.User, msg notify.Message) (string, error) {
	id, err := s.transport.Send(ctx, msg)
	metrics.RecordNotification(metricKind(msg.Kind), err == nil)
	if err != nil {
		s.logger.Error(ctx, "email delivery failed", "kind", msg.Kind, "vessel_id", msg.VesselID, "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrDelivery, err)
	}

	s.logger.Info(ctx, "email sent", "kind", msg.Kind, "vessel_id", msg.VesselID, "message_id", id)

	if s.archiver != nil {
		rec := mailer.Record{MessageID: id, SentAt: s.now().UTC(), Message: msg}
		if actor != nil {
			rec.SentBy = actor.ID
		}
		if err := s.archiver.Archive(ctx, rec); err != nil {
			s.logger.Warn(ctx, "email archive failed", "message_id", id, "error", err)
		}
	}

	return id, nil
}

// metricKind keeps the notification label set bounded: free-text kinds
// from the custom route are counted together.
func metricKind(kind string) string {
	if k, ok := notify.Lookup(kind); ok {
		return k.Key
	}
	return metrics.KindCustom
}
