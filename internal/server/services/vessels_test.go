package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/server/config"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *fakePublisher) Publish(e models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var (
	alice = &models.User{ID: "u-alice", Email: "alice@port.example", Role: models.RoleUser}
	bob   = &models.User{ID: "u-bob", Email: "bob@port.example", Role: models.RoleUser}
	admin = &models.User{ID: "u-admin", Email: "admin@port.example", Role: models.RoleAdmin}
)

func newVesselService(t *testing.T, policy string) (*VesselService, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	s := NewVesselService(repomanager.NewMemoryRepositoryManager(), policy, pub, logging.Discard())
	return s, pub
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.Equal(t, "Validation Error", verr.Message)
	return verr.Fields
}

func TestVesselService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	s, pub := newVesselService(t, config.VesselPolicyAny)

	v, err := s.Create(ctx, models.VesselInput{Name: "  MV Test ", ETA: "2025-01-01T00:00:00Z"}, alice)
	require.NoError(t, err)

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "MV Test", v.Name)
	assert.Equal(t, models.StatusPending, v.Status)
	assert.Equal(t, "u-alice", v.CreatedBy)
	assert.True(t, v.ETA.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	got, err := s.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Services{}, got.Services)
	assert.Equal(t, models.Requests{}, got.Requests)
	assert.Nil(t, got.ETB)
	assert.Nil(t, got.ETD)

	assert.Equal(t, []string{models.EventCreated}, pub.types())
}

func TestVesselService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	s, pub := newVesselService(t, config.VesselPolicyAny)

	tests := []struct {
		name string
		in   models.VesselInput
		want map[string]string
	}{
		{
			name: "missing name and eta",
			in:   models.VesselInput{},
			want: map[string]string{"name": "Vessel name is required", "eta": "ETA is required"},
		},
		{
			name: "bad eta",
			in:   models.VesselInput{Name: "A", ETA: "tomorrow"},
			want: map[string]string{"eta": "ETA must be a valid date"},
		},
		{
			name: "etb before eta",
			in:   models.VesselInput{Name: "A", ETA: "2025-01-02T00:00:00Z", ETB: "2025-01-01T00:00:00Z"},
			want: map[string]string{"etb": "ETB cannot be before ETA"},
		},
		{
			name: "etd before etb",
			in:   models.VesselInput{Name: "A", ETA: "2025-01-01T00:00:00Z", ETB: "2025-01-03T00:00:00Z", ETD: "2025-01-02T00:00:00Z"},
			want: map[string]string{"etd": "ETD cannot be before ETB"},
		},
		{
			name: "etd before eta without etb",
			in:   models.VesselInput{Name: "A", ETA: "2025-01-02T00:00:00Z", ETD: "2025-01-01T00:00:00Z"},
			want: map[string]string{"etd": "ETD cannot be before ETA"},
		},
		{
			name: "bad status",
			in:   models.VesselInput{Name: "A", ETA: "2025-01-01", Status: "sailing"},
			want: map[string]string{"status": "Status must be one of pending, in-progress, completed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in, alice)
			if diff := cmp.Diff(tt.want, validationFields(t, err)); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, pub.types())
}

func TestVesselService_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newVesselService(t, config.VesselPolicyAny)

	v, err := s.Create(ctx, models.VesselInput{
		Name:     "MV Test",
		ETA:      "2025-01-01T00:00:00Z",
		ETB:      "2025-01-01T06:00:00Z",
		Berth:    "B1",
		Services: models.Services{Provisions: true},
	}, alice)
	require.NoError(t, err)

	yes := true
	updated, err := s.Update(ctx, bob, v.ID, models.VesselPatch{
		ETD:      models.Some("2025-01-02T00:00:00Z"),
		Status:   models.Some(string(models.StatusInProgress)),
		Berth:    models.Null[string](),
		Services: &models.ServicesPatch{FreshWater: &yes},
	})
	require.NoError(t, err)

	assert.Equal(t, "MV Test", updated.Name)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "", updated.Berth)
	assert.Equal(t, models.Services{FreshWater: true, Provisions: true}, updated.Services)
	require.NotNil(t, updated.ETB)
	require.NotNil(t, updated.ETD)
	assert.Equal(t, v.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "u-alice", updated.CreatedBy)

	// clearing etb re-checks etd against eta
	updated, err = s.Update(ctx, alice, v.ID, models.VesselPatch{ETB: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.ETB)
}

func TestVesselService_InvalidUpdateLeavesRecord(t *testing.T) {
	ctx := context.Background()
	s, pub := newVesselService(t, config.VesselPolicyAny)

	v, err := s.Create(ctx, models.VesselInput{
		Name: "MV Test",
		ETA:  "2025-01-01T00:00:00Z",
		ETB:  "2025-01-01T06:00:00Z",
		ETD:  "2025-01-02T00:00:00Z",
	}, alice)
	require.NoError(t, err)
	before, err := s.Get(ctx, v.ID)
	require.NoError(t, err)

	patches := []models.VesselPatch{
		{ETD: models.Some("2025-01-01T03:00:00Z")},
		{ETB: models.Some("2024-12-31T00:00:00Z"), Name: models.Some("Renamed")},
		{ETA: models.Null[string]()},
		{Name: models.Some("   ")},
	}
	for _, p := range patches {
		_, err := s.Update(ctx, alice, v.ID, p)
		assert.ErrorIs(t, err, common.ErrValidation)

		after, err := s.Get(ctx, v.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("record changed (-before +after):\n%s", diff)
		}
	}
	assert.Equal(t, []string{models.EventCreated}, pub.types())
}

func TestVesselService_UpdateUnknown(t *testing.T) {
	s, _ := newVesselService(t, config.VesselPolicyAny)

	_, err := s.Update(context.Background(), alice, "missing", models.VesselPatch{Name: models.Some("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVesselService_Delete(t *testing.T) {
	ctx := context.Background()
	s, pub := newVesselService(t, config.VesselPolicyAny)

	v, err := s.Create(ctx, models.VesselInput{Name: "MV Test", ETA: "2025-01-01"}, alice)
	require.NoError(t, err)
	keep, err := s.Create(ctx, models.VesselInput{Name: "MV Keep", ETA: "2025-01-01"}, alice)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, bob, v.ID))
	assert.ErrorIs(t, s.Delete(ctx, bob, v.ID), common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, bob, "never-existed"), common.ErrorNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	assert.Equal(t, []string{models.EventCreated, models.EventCreated, models.EventDeleted}, pub.types())
}

func TestVesselService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newVesselService(t, config.VesselPolicyAny)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i, name := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		v, err := s.Create(ctx, models.VesselInput{Name: name, ETA: "2025-02-01"}, alice)
		require.NoError(t, err)
		ids = append(ids, v.ID)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestVesselService_OwnerPolicy(t *testing.T) {
	ctx := context.Background()
	s, _ := newVesselService(t, config.VesselPolicyOwner)

	v, err := s.Create(ctx, models.VesselInput{Name: "MV Test", ETA: "2025-01-01"}, alice)
	require.NoError(t, err)

	_, err = s.Update(ctx, bob, v.ID, models.VesselPatch{Name: models.Some("Hijacked")})
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, bob, v.ID), common.ErrForbidden)

	_, err = s.Update(ctx, alice, v.ID, models.VesselPatch{Name: models.Some("Renamed")})
	assert.NoError(t, err)

	assert.NoError(t, s.Delete(ctx, admin, v.ID))
}

func TestNewVesselService_UnknownPolicyIsPermissive(t *testing.T) {
	s, _ := newVesselService(t, "whatever")
	assert.Equal(t, config.VesselPolicyAny, s.policy)
}
