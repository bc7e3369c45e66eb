package orderapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/adapters/out/orderapi"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetPackage(t *testing.T) {
	t.Run("should decode a package", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/internal/v1/packages/PKG-1", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "PKG-1",
				"trackingNumber": "TRK-0001",
				"isExpress": true,
				"pickUpStart": "2026-09-01T14:00:00Z",
				"pickUp": {"text": "Warehouse 4", "latitude": 41.0082, "longitude": 28.9784},
				"dropOff": {"text": "Pier 9", "latitude": 41.0151, "longitude": 28.9795}
			}`))
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "secret")
		require.NoError(t, err)

		pkg, err := client.GetPackage(context.Background(), "PKG-1")
		require.NoError(t, err)

		assert.Equal(t, "PKG-1", pkg.ID)
		assert.Equal(t, "TRK-0001", pkg.TrackingNumber)
		assert.True(t, pkg.IsExpress)
		assert.Equal(t, time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC), pkg.PickUpStart)
		assert.Equal(t, "Warehouse 4", pkg.PickUp.Text)
		assert.InDelta(t, 28.9795, pkg.DropOff.Coordinates.Longitude(), 1e-9)
	})

	t.Run("should map 404 to object not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		_, err = client.GetPackage(context.Background(), "PKG-MISSING")
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should retry transient server failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{
				"id": "PKG-1",
				"trackingNumber": "TRK-0001",
				"isExpress": false,
				"pickUpStart": "2026-09-01T14:00:00Z",
				"pickUp": {"text": "A", "latitude": 1, "longitude": 1},
				"dropOff": {"text": "B", "latitude": 2, "longitude": 2}
			}`))
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		pkg, err := client.GetPackage(context.Background(), "PKG-1")
		require.NoError(t, err)
		assert.Equal(t, "PKG-1", pkg.ID)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should reject an empty package id", func(t *testing.T) {
		client, err := orderapi.NewClient("http://localhost:1", "")
		require.NoError(t, err)

		_, err = client.GetPackage(context.Background(), "")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestClient_GetDispatchablePackages(t *testing.T) {
	t.Run("should decode the dispatchable list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/internal/v1/packages", r.URL.Path)
			assert.Equal(t, "PLACED", r.URL.Query().Get("status"))

			_, _ = w.Write([]byte(`[
				{"id": "PKG-1", "trackingNumber": "TRK-1", "isExpress": false,
				 "pickUpStart": "2026-09-01T14:00:00Z",
				 "pickUp": {"text": "A", "latitude": 1, "longitude": 1},
				 "dropOff": {"text": "B", "latitude": 2, "longitude": 2}},
				{"id": "PKG-2", "trackingNumber": "TRK-2", "isExpress": true,
				 "pickUpStart": "2026-09-01T15:00:00Z",
				 "pickUp": {"text": "C", "latitude": 3, "longitude": 3},
				 "dropOff": {"text": "D", "latitude": 4, "longitude": 4}}
			]`))
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		packages, err := client.GetDispatchablePackages(context.Background())
		require.NoError(t, err)

		require.Len(t, packages, 2)
		assert.Equal(t, "PKG-1", packages[0].ID)
		assert.True(t, packages[1].IsExpress)
	})

	t.Run("should surface upstream failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		_, err = client.GetDispatchablePackages(context.Background())
		assert.ErrorIs(t, err, errs.ErrUpstreamFailure)
	})
}

func TestClient_Linkage(t *testing.T) {
	t.Run("should put the linkage payload", func(t *testing.T) {
		assignmentID := kernel.NewUUID()
		driverID := kernel.NewUUID()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/internal/v1/packages/PKG-1/linkage", r.URL.Path)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, assignmentID.String(), payload["assignmentId"])
			assert.Equal(t, driverID.String(), payload["driverId"])
			assert.Equal(t, "Dana Driver", payload["driverName"])
			assert.Equal(t, "+15550100", payload["driverPhone"])

			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		err = client.SetLinkage(context.Background(), "PKG-1", ports.PackageLinkage{
			AssignmentID: assignmentID,
			DriverID:     driverID,
			DriverName:   "Dana Driver",
			DriverPhone:  "+15550100",
		})
		require.NoError(t, err)
	})

	t.Run("should delete the linkage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/internal/v1/packages/PKG-1/linkage", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		require.NoError(t, client.ClearLinkage(context.Background(), "PKG-1"))
	})

	t.Run("should not retry writes", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		err = client.ClearLinkage(context.Background(), "PKG-1")
		assert.ErrorIs(t, err, errs.ErrUpstreamFailure)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestClient_SendEvent(t *testing.T) {
	t.Run("should post the event payload", func(t *testing.T) {
		assignmentID := kernel.NewUUID()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/internal/v1/packages/PKG-1/events", r.URL.Path)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "PACKAGE_DELIVERED", payload["event"])
			assert.Equal(t, assignmentID.String(), payload["assignmentId"])

			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client, err := orderapi.NewClient(server.URL, "")
		require.NoError(t, err)

		err = client.SendEvent(context.Background(), "PKG-1", ports.EventPackageDelivered, assignmentID)
		require.NoError(t, err)
	})
}
