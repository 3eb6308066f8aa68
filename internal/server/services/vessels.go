package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/server/config"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Publisher receives vessel change events. The events hub implements it.
type Publisher interface {
	Publish(e models.Event)
}

type VesselService struct {
	repomanager repomanager.RepositoryManager
	policy      string
	publisher   Publisher
	logger      logging.Logger
	now         func() time.Time
}

// NewVesselService builds the service. policy is config.VesselPolicyAny or
// config.VesselPolicyOwner; publisher may be nil.
func NewVesselService(m repomanager.RepositoryManager, policy string, publisher Publisher, l logging.Logger) *VesselService {
	if policy != config.VesselPolicyOwner {
		policy = config.VesselPolicyAny
	}
	return &VesselService{
		repomanager: m,
		policy:      policy,
		publisher:   publisher,
		logger:      l.With("module", "vessels"),
		now:         time.Now,
	}
}

func (s *VesselService) List(ctx context.Context) ([]*models.Vessel, error) {
	return s.repomanager.Vessels().List(ctx)
}

func (s *VesselService) Get(ctx context.Context, id string) (*models.Vessel, error) {
	return s.repomanager.Vessels().Get(ctx, id)
}

// Create validates in and stores a new vessel owned by owner.
func (s *VesselService) Create(ctx context.Context, in models.VesselInput, owner *models.User) (*models.Vessel, error) {
	verr := common.NewValidationError("Validation Error")

	v := &models.Vessel{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(in.Name),
		Berth:              strings.TrimSpace(in.Berth),
		IMO:                strings.TrimSpace(in.IMO),
		Cargo:              strings.TrimSpace(in.Cargo),
		FreshWaterQuantity: in.FreshWaterQuantity,
		Services:           in.Services,
		Requests:           in.Requests,
		Status:             models.StatusPending,
	}

	if strings.TrimSpace(in.ETA) == "" {
		verr.Add("eta", "ETA is required")
	} else {
		v.ETA = parseField(verr, "eta", "ETA", in.ETA)
	}
	v.ETB = parseOptional(verr, "etb", "ETB", in.ETB)
	v.ETD = parseOptional(verr, "etd", "ETD", in.ETD)

	if in.Status != "" {
		v.Status = models.Status(in.Status)
	}

	validateVessel(v, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if owner != nil {
		v.CreatedBy = owner.ID
	}

	if err := s.repomanager.Vessels().Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vessel created", "vessel_id", v.ID, "name", v.Name)
	s.publish(models.EventCreated, v, v.ID)
	return v, nil
}

// Update merges patch into the stored vessel inside one transaction.
// Validation failures leave the record untouched.
func (s *VesselService) Update(ctx context.Context, actor *models.User, id string, patch models.VesselPatch) (*models.Vessel, error) {
	var updated *models.Vessel

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		current, err := repos.Vessels().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(actor, current); err != nil {
			return err
		}

		if patch.Empty() {
			updated = current
			return nil
		}

		merged := current.Clone()
		verr := common.NewValidationError("Validation Error")
		applyPatch(merged, patch, verr)
		validateVessel(merged, verr)
		if err := verr.OrNil(); err != nil {
			return err
		}

		merged.UpdatedAt = s.now().UTC()
		if err := repos.Vessels().Update(ctx, merged); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventUpdated, updated, updated.ID)
	return updated, nil
}

// Delete removes the vessel. Unknown ids yield common.ErrorNotFound.
func (s *VesselService) Delete(ctx context.Context, actor *models.User, id string) error {
	var err error
	if s.policy == config.VesselPolicyAny {
		err = s.repomanager.Vessels().Delete(ctx, id)
	} else {
		err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
			current, err := repos.Vessels().GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := s.authorize(actor, current); err != nil {
				return err
			}
			return repos.Vessels().Delete(ctx, id)
		})
	}
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "vessel deleted", "vessel_id", id)
	s.publish(models.EventDeleted, nil, id)
	return nil
}

func (s *VesselService) authorize(actor *models.User, v *models.Vessel) error {
	if s.policy != config.VesselPolicyOwner || actor.IsAdmin() {
		return nil
	}
	if actor == nil || v.CreatedBy != actor.ID {
		return common.ErrForbidden
	}
	return nil
}

func (s *VesselService) publish(eventType string, v *models.Vessel, id string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(models.Event{Type: eventType, Vessel: v.Clone(), ID: id, At: s.now().UTC()})
}

func parseField(verr *common.ValidationError, field, label, raw string) time.Time {
	t, err := models.ParseTimestamp(raw)
	if err != nil {
		verr.Add(field, label+" must be a valid date")
	}
	return t
}

func parseOptional(verr *common.ValidationError, field, label, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := models.ParseTimestamp(raw)
	if err != nil {
		verr.Add(field, label+" must be a valid date")
		return nil
	}
	return &t
}

func applyPatch(v *models.Vessel, p models.VesselPatch, verr *common.ValidationError) {
	if p.Name.Set {
		v.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.ETA.Set {
		if p.ETA.Null || strings.TrimSpace(p.ETA.Value) == "" {
			verr.Add("eta", "ETA is required")
		} else {
			v.ETA = parseField(verr, "eta", "ETA", p.ETA.Value)
		}
	}
	if p.ETB.Set {
		v.ETB = parseOptional(verr, "etb", "ETB", p.ETB.Value)
	}
	if p.ETD.Set {
		v.ETD = parseOptional(verr, "etd", "ETD", p.ETD.Value)
	}
	if p.Berth.Set {
		v.Berth = strings.TrimSpace(p.Berth.Value)
	}
	if p.IMO.Set {
		v.IMO = strings.TrimSpace(p.IMO.Value)
	}
	if p.Cargo.Set {
		v.Cargo = strings.TrimSpace(p.Cargo.Value)
	}
	if p.FreshWaterQuantity.Set {
		if p.FreshWaterQuantity.Null {
			v.FreshWaterQuantity = nil
		} else {
			q := p.FreshWaterQuantity.Value
			v.FreshWaterQuantity = &q
		}
	}
	if p.Status.Set {
		v.Status = models.Status(p.Status.Value)
	}

	if sp := p.Services; sp != nil {
		setFlag(&v.Services.FreshWater, sp.FreshWater)
		setFlag(&v.Services.Provisions, sp.Provisions)
		setFlag(&v.Services.WasteDisposal, sp.WasteDisposal)
	}
	if rp := p.Requests; rp != nil {
		setFlag(&v.Requests.Pilotage, rp.Pilotage)
		setFlag(&v.Requests.Towage, rp.Towage)
		setFlag(&v.Requests.Linesmen, rp.Linesmen)
	}
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// validateVessel checks the record-level invariants: a name, a real ETA,
// a known status and ETA <= ETB <= ETD for whichever of them are set.
func validateVessel(v *models.Vessel, verr *common.ValidationError) {
	if v.Name == "" {
		verr.Add("name", "Vessel name is required")
	}
	if v.ETA.IsZero() {
		verr.Add("eta", "ETA is required")
	}
	if !v.Status.Valid() {
		verr.Add("status", "Status must be one of pending, in-progress, completed")
	}
	if v.FreshWaterQuantity != nil && *v.FreshWaterQuantity < 0 {
		verr.Add("freshWaterQuantity", "Fresh water quantity cannot be negative")
	}

	if v.ETA.IsZero() {
		return
	}
	if v.ETB != nil && v.ETB.Before(v.ETA) {
		verr.Add("etb", "ETB cannot be before ETA")
	}
	switch {
	case v.ETD != nil && v.ETB != nil:
		if v.ETD.Before(*v.ETB) {
			verr.Add("etd", "ETD cannot be before ETB")
		}
	case v.ETD != nil:
		if v.ETD.Before(v.ETA) {
			verr.Add("etd", "ETD cannot be before ETA")
		}
	}
}
