// Package googlemaps estimates road travel with the Distance Matrix API.
package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"googlemaps.github.io/maps"
)

const serviceName = "distance matrix"

// matrixClient is the slice of the Google Maps client the adapter uses.
type matrixClient interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// ETAService implements ports.ETAService on the Google Maps Distance Matrix
// API. Estimates use traffic-aware durations when the departure time is in
// the future.
type ETAService struct {
	client matrixClient
}

// NewETAService creates an estimator using the given API key.
func NewETAService(apiKey string) (*ETAService, error) {
	if apiKey == "" {
		return nil, errors.New("maps api key is empty")
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &ETAService{client: client}, nil
}

// NewETAServiceWithClient creates an estimator over an existing client.
// Used by tests to substitute the transport.
func NewETAServiceWithClient(client matrixClient) *ETAService {
	return &ETAService{client: client}
}

// EstimateDuration returns the driving time from origin to destination when
// leaving at departAt.
func (s *ETAService) EstimateDuration(
	ctx context.Context, origin, destination kernel.Coordinates, departAt time.Time,
) (time.Duration, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return 0, err
	}

	request := &maps.DistanceMatrixRequest{
		Origins:      []string{formatCoordinates(origin)},
		Destinations: []string{formatCoordinates(destination)},
		Mode:         maps.TravelModeDriving,
	}
	if departAt.After(time.Now()) {
		request.DepartureTime = strconv.FormatInt(departAt.Unix(), 10)
	}

	response, err := s.client.DistanceMatrix(ctx, request)
	if err != nil {
		return 0, errs.NewUpstreamFailureErrorWithCause(serviceName, err)
	}

	element, err := singleElement(response)
	if err != nil {
		return 0, err
	}

	if element.DurationInTraffic > 0 {
		return element.DurationInTraffic, nil
	}
	return element.Duration, nil
}

// EstimateArrival returns the arrival time at the destination when leaving
// the origin at departAt.
func (s *ETAService) EstimateArrival(
	ctx context.Context, origin, destination kernel.Coordinates, departAt time.Time,
) (time.Time, error) {
	duration, err := s.EstimateDuration(ctx, origin, destination, departAt)
	if err != nil {
		return time.Time{}, err
	}

	return departAt.Add(duration), nil
}

func singleElement(response *maps.DistanceMatrixResponse) (*maps.DistanceMatrixElement, error) {
	if len(response.Rows) == 0 || len(response.Rows[0].Elements) == 0 {
		return nil, errs.NewUpstreamFailureError(serviceName, "empty matrix response")
	}

	element := response.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, errs.NewUpstreamFailureError(serviceName,
			fmt.Sprintf("element status %s", element.Status))
	}

	return element, nil
}

func formatCoordinates(coordinates kernel.Coordinates) string {
	return fmt.Sprintf("%f,%f", coordinates.Latitude(), coordinates.Longitude())
}
