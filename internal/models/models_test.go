package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVesselPatch_DecodesPresenceAndNull(t *testing.T) {
	var p VesselPatch
	body := `{"name":"MV Aurora","etb":null,"services":{"freshWater":true}}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.True(t, p.Name.Set)
	assert.False(t, p.Name.Null)
	assert.Equal(t, "MV Aurora", p.Name.Value)

	assert.True(t, p.ETB.Set)
	assert.True(t, p.ETB.Null)

	assert.False(t, p.ETA.Set)
	assert.False(t, p.ETD.Set)

	require.NotNil(t, p.Services)
	require.NotNil(t, p.Services.FreshWater)
	assert.True(t, *p.Services.FreshWater)
	assert.Nil(t, p.Services.Provisions)
	assert.Nil(t, p.Requests)
	assert.False(t, p.Empty())
}

func TestVesselPatch_EncodesOnlyPresentFields(t *testing.T) {
	p := VesselPatch{
		Status: Some("completed"),
		ETD:    Null[string](),
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"completed","etd":null}`, string(b))

	assert.True(t, (&VesselPatch{}).Empty())
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-01-01T00:00:00Z",
		"2025-01-01T02:00:00+02:00",
		"2025-01-01T00:00:00",
		"2025-01-01T00:00",
		"2025-01-01",
		" 2025-01-01T00:00:00.000Z ",
	} {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s -> %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	for _, in := range []string{"", "tomorrow", "01/01/2025", "0001-01-01T00:00:00Z"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, ErrBadTimestamp, in)
	}
}

func TestVessel_CloneIsDeep(t *testing.T) {
	etb := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	q := 120.0
	v := &Vessel{ID: "v1", ETB: &etb, FreshWaterQuantity: &q}

	c := v.Clone()
	*c.ETB = c.ETB.Add(time.Hour)
	*c.FreshWaterQuantity = 1

	assert.Equal(t, etb, *v.ETB)
	assert.Equal(t, 120.0, *v.FreshWaterQuantity)
	assert.Nil(t, (*Vessel)(nil).Clone())
}

func TestVessel_JSONShape(t *testing.T) {
	v := Vessel{
		ID:     "abc",
		Name:   "MV Test",
		ETA:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status: StatusPending,
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "2025-01-01T00:00:00Z", m["eta"])
	assert.Nil(t, m["etb"])
	assert.Contains(t, m, "etd")
	assert.NotContains(t, m, "berth")
	assert.Equal(t, map[string]any{"freshWater": false, "provisions": false, "wasteDisposal": false}, m["services"])
}

func TestUser_PasswordHashNotSerialised(t *testing.T) {
	u := User{ID: "1", Email: "a@b.c", PasswordHash: "$2a$...", Role: RoleUser}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "$2a$")
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, u.IsAdmin())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("done").Valid())
}
