package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newTestClient(t *testing.T, h func(w http.ResponseWriter, r *recorded)) (*HTTPClient, *[]recorded) {
	t.Helper()
	var calls []recorded

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		h(w, &rec)
	}))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c, &calls
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example", time.Second)
	assert.Error(t, err)

	_, err = NewHTTPClient("://", time.Second)
	assert.Error(t, err)
}

func TestHTTPClient_LoginStoresToken(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		switch r.path {
		case "/api/auth/login":
			_, _ = io.WriteString(w, `{"token":"tok-1"}`)
		case "/api/auth/me":
			_, _ = io.WriteString(w, `{"id":"u1","email":"a@b.c","role":"user"}`)
		}
	})

	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "a@b.c", "secret1"))
	assert.Equal(t, "tok-1", c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", me.Email)
	assert.Equal(t, models.RoleUser, me.Role)

	require.Len(t, *calls, 2)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, map[string]any{"email": "a@b.c", "password": "secret1"}, (*calls)[0].body)
	assert.Empty(t, (*calls)[0].auth)
	assert.Equal(t, "Bearer tok-1", (*calls)[1].auth)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
		msg    string
	}{
		{"unauthorized", 401, `{"success":false,"message":"Token has expired"}`, common.ErrUnauthorized, "Token has expired"},
		{"forbidden", 403, `{"success":false,"message":"Access denied"}`, common.ErrForbidden, "Access denied"},
		{"not found", 404, `{"success":false,"message":"Vessel not found"}`, common.ErrorNotFound, "Vessel not found"},
		{"validation", 400, `{"success":false,"message":"Validation Error","errors":{"name":"Vessel name is required"}}`, common.ErrValidation, "Validation Error"},
		{"no body", 502, ``, nil, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *recorded) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.GetVessel(context.Background(), "v1")
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.EqualError(t, err, tt.msg)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestHTTPClient_ValidationFields(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *recorded) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"message":"Validation Error","errors":{"eta":"ETA is required"}}`)
	})

	_, err := c.CreateVessel(context.Background(), models.VesselInput{Name: "Nordic"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, map[string]string{"eta": "ETA is required"}, apiErr.Fields)
}

func TestHTTPClient_VesselRoutes(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		switch {
		case r.method == http.MethodGet && r.path == "/api/vessels":
			_, _ = io.WriteString(w, `[{"id":"v2","name":"B"},{"id":"v1","name":"A"}]`)
		case r.method == http.MethodDelete:
			_, _ = io.WriteString(w, `{"message":"Vessel deleted successfully"}`)
		default:
			_, _ = io.WriteString(w, `{"id":"v1","name":"A","status":"pending"}`)
		}
	})
	c.SetToken("t")
	ctx := context.Background()

	list, err := c.ListVessels(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v2", list[0].ID)

	v, err := c.CreateVessel(ctx, models.VesselInput{Name: "A", ETA: "2025-03-01T08:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, v.Status)

	_, err = c.UpdateVessel(ctx, "v 1", models.VesselPatch{
		ETB:    models.Null[string](),
		Status: models.Some("in-progress"),
	})
	require.NoError(t, err)

	require.NoError(t, c.DeleteVessel(ctx, "v1"))

	require.Len(t, *calls, 4)
	assert.Equal(t, map[string]any{"name": "A", "eta": "2025-03-01T08:00:00Z",
		"services": map[string]any{"freshWater": false, "provisions": false, "wasteDisposal": false},
		"requests": map[string]any{"pilotage": false, "towage": false, "linesmen": false},
	}, (*calls)[1].body)

	update := (*calls)[2]
	assert.Equal(t, http.MethodPut, update.method)
	assert.Equal(t, "/api/vessels/v 1", update.path)
	assert.Equal(t, map[string]any{"etb": nil, "status": "in-progress"}, update.body)

	assert.Equal(t, http.MethodDelete, (*calls)[3].method)
	assert.Equal(t, "/api/vessels/v1", (*calls)[3].path)
}

func TestHTTPClient_Notifications(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		_, _ = io.WriteString(w, `{"message":"ok","emailId":"<id@x>"}`)
	})
	c.SetToken("t")
	ctx := context.Background()

	res, err := c.SendServiceNotification(ctx, models.ServiceNotificationRequest{VesselID: "v1", ServiceType: "pilotage"})
	require.NoError(t, err)
	assert.Equal(t, "<id@x>", res.EmailID)

	_, err = c.SendCustomNotification(ctx, models.CustomNotificationRequest{VesselID: "v1", EmailType: "towage", ToAddress: "ops@tug.example"})
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/api/email/send-service-notification", (*calls)[0].path)
	assert.Equal(t, "/api/email/send-custom-notification", (*calls)[1].path)
	assert.Equal(t, "ops@tug.example", (*calls)[1].body["toAddress"])
	assert.NotContains(t, (*calls)[1].body, "ccAddress")
}

func TestHTTPClient_HealthAndCleanup(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		if r.path == "/api/health" {
			_, _ = io.WriteString(w, `{"status":"OK","database":{"state":"memory","connected":true},"api":"running"}`)
			return
		}
		_, _ = io.WriteString(w, `{"message":"Deleted 3 users","deletedCount":3}`)
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", h.Status)
	assert.True(t, h.Database.Connected)

	n, err := c.CleanupUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewHTTPClient(base, time.Second)
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsUnavailable(err))
}
