// Package http exposes the dispatch API over echo. Handlers are a thin
// shell: parse, build the command or query, call the handler, map the error.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the application's command and query
// handlers.
type Server struct {
	createAssignmentsHandler  commands.CreateAssignmentsCommandHandler
	confirmAssignmentsHandler commands.ConfirmAssignmentsCommandHandler
	cancelAssignmentHandler   commands.CancelAssignmentCommandHandler
	completeTaskHandler       commands.CompleteTaskCommandHandler
	departStopHandler         commands.DepartStopCommandHandler
	arriveAtStopHandler       commands.ArriveAtStopCommandHandler
	reportLocationHandler     commands.ReportLocationCommandHandler

	getCurrentStopsHandler      queries.GetCurrentStopsQueryHandler
	getDriverAssignmentsHandler queries.GetDriverAssignmentsQueryHandler
}

// NewServer creates an HTTP server over the given handlers.
func NewServer(
	createAssignmentsHandler commands.CreateAssignmentsCommandHandler,
	confirmAssignmentsHandler commands.ConfirmAssignmentsCommandHandler,
	cancelAssignmentHandler commands.CancelAssignmentCommandHandler,
	completeTaskHandler commands.CompleteTaskCommandHandler,
	departStopHandler commands.DepartStopCommandHandler,
	arriveAtStopHandler commands.ArriveAtStopCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	getCurrentStopsHandler queries.GetCurrentStopsQueryHandler,
	getDriverAssignmentsHandler queries.GetDriverAssignmentsQueryHandler,
) *Server {
	return &Server{
		createAssignmentsHandler:    createAssignmentsHandler,
		confirmAssignmentsHandler:   confirmAssignmentsHandler,
		cancelAssignmentHandler:     cancelAssignmentHandler,
		completeTaskHandler:         completeTaskHandler,
		departStopHandler:           departStopHandler,
		arriveAtStopHandler:         arriveAtStopHandler,
		reportLocationHandler:       reportLocationHandler,
		getCurrentStopsHandler:      getCurrentStopsHandler,
		getDriverAssignmentsHandler: getDriverAssignmentsHandler,
	}
}

// RegisterRoutes attaches the dispatch API to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/drivers/:driverId/assignments", s.CreateAssignments)
	api.POST("/drivers/:driverId/locations", s.ReportLocation)
	api.GET("/drivers/:driverId/stops", s.GetCurrentStops)
	api.GET("/drivers/:driverId/assignments", s.GetDriverAssignments)

	api.POST("/assignments/confirmations", s.ConfirmAssignments)
	api.DELETE("/assignments/:assignmentId", s.CancelAssignment)

	api.POST("/tasks/:taskId/completion", s.CompleteTask)
	api.POST("/stops/:stopId/departure", s.DepartStop)
	api.POST("/stops/:stopId/arrival", s.ArriveAtStop)

	e.GET("/health", s.Health)
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// CreateAssignmentsRequest is the manual assignment payload.
type CreateAssignmentsRequest struct {
	PackageIDs []string `json:"packageIds"`
}

// ReportLocationRequest is a position update from the driver app.
type ReportLocationRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	BatteryLevel float64 `json:"batteryLevel"`
}

// ConfirmAssignmentsRequest confirms a batch against one reported location.
type ConfirmAssignmentsRequest struct {
	LocationID    string   `json:"locationId"`
	AssignmentIDs []string `json:"assignmentIds"`
}

// StopTaskResponse is one obligation at a stop.
type StopTaskResponse struct {
	ID           string     `json:"id"`
	AssignmentID string     `json:"assignmentId"`
	PackageID    string     `json:"packageId"`
	Type         string     `json:"type"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// StopResponse is one stop of the driver's live route.
type StopResponse struct {
	ID         string             `json:"id"`
	Latitude   float64            `json:"latitude"`
	Longitude  float64            `json:"longitude"`
	Ranking    int                `json:"ranking"`
	DepartBy   *time.Time         `json:"departBy,omitempty"`
	ArriveBy   *time.Time         `json:"arriveBy,omitempty"`
	DepartedAt *time.Time         `json:"departedAt,omitempty"`
	ArrivedAt  *time.Time         `json:"arrivedAt,omitempty"`
	Tasks      []StopTaskResponse `json:"tasks"`
}

// AssignmentResponse is one assignment in the driver's list.
type AssignmentResponse struct {
	ID          string     `json:"id"`
	PackageID   string     `json:"packageId"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CreateAssignments handles POST /api/v1/drivers/:driverId/assignments.
func (s *Server) CreateAssignments(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	var request CreateAssignmentsRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	command, err := commands.NewCreateAssignmentsCommand(driverID, delivery.TypeManual, request.PackageIDs)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.createAssignmentsHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ReportLocation handles POST /api/v1/drivers/:driverId/locations.
func (s *Server) ReportLocation(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	var request ReportLocationRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	coordinates, err := kernel.NewCoordinates(request.Latitude, request.Longitude)
	if err != nil {
		return mapError(ctx, err)
	}

	command, err := commands.NewReportLocationCommand(driverID, coordinates, request.BatteryLevel)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.reportLocationHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// GetCurrentStops handles GET /api/v1/drivers/:driverId/stops.
func (s *Server) GetCurrentStops(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	query, err := queries.NewGetCurrentStopsQuery(driverID)
	if err != nil {
		return mapError(ctx, err)
	}

	stops, err := s.getCurrentStopsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]StopResponse, 0, len(stops))
	for _, stop := range stops {
		tasks := make([]StopTaskResponse, 0, len(stop.Tasks))
		for _, task := range stop.Tasks {
			tasks = append(tasks, StopTaskResponse{
				ID:           task.ID.String(),
				AssignmentID: task.AssignmentID.String(),
				PackageID:    task.PackageID,
				Type:         task.Type,
				CompletedAt:  task.CompletedAt,
			})
		}

		response = append(response, StopResponse{
			ID:         stop.ID.String(),
			Latitude:   stop.Latitude,
			Longitude:  stop.Longitude,
			Ranking:    stop.Ranking,
			DepartBy:   stop.DepartBy,
			ArriveBy:   stop.ArriveBy,
			DepartedAt: stop.DepartedAt,
			ArrivedAt:  stop.ArrivedAt,
			Tasks:      tasks,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDriverAssignments handles GET /api/v1/drivers/:driverId/assignments.
// Repeating the "status" query parameter narrows the result to those statuses.
func (s *Server) GetDriverAssignments(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	statusParams := ctx.QueryParams()["status"]
	statuses := make([]delivery.Status, 0, len(statusParams))
	for _, status := range statusParams {
		statuses = append(statuses, delivery.Status(status))
	}

	query, err := queries.NewGetDriverAssignmentsQuery(driverID, statuses)
	if err != nil {
		return mapError(ctx, err)
	}

	assignments, err := s.getDriverAssignmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		response = append(response, AssignmentResponse{
			ID:          assignment.ID.String(),
			PackageID:   assignment.PackageID,
			Type:        assignment.Type,
			Status:      assignment.Status,
			ConfirmedAt: assignment.ConfirmedAt,
			ExpiresAt:   assignment.ExpiresAt,
			CreatedAt:   assignment.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// ConfirmAssignments handles POST /api/v1/assignments/confirmations.
func (s *Server) ConfirmAssignments(ctx echo.Context) error {
	var request ConfirmAssignmentsRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	locationID, err := kernel.UUIDFromString(request.LocationID)
	if err != nil {
		return badRequest(ctx, "Invalid location id")
	}

	assignmentIDs := make([]kernel.UUID, 0, len(request.AssignmentIDs))
	for _, raw := range request.AssignmentIDs {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "Invalid assignment id")
		}
		assignmentIDs = append(assignmentIDs, id)
	}

	command, err := commands.NewConfirmAssignmentsCommand(locationID, assignmentIDs)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.confirmAssignmentsHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelAssignment handles DELETE /api/v1/assignments/:assignmentId.
func (s *Server) CancelAssignment(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentId")
	if err != nil {
		return badRequest(ctx, "Invalid assignment id")
	}

	command, err := commands.NewCancelAssignmentCommand(assignmentID)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.cancelAssignmentHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteTask handles POST /api/v1/tasks/:taskId/completion.
func (s *Server) CompleteTask(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "Invalid task id")
	}

	command, err := commands.NewCompleteTaskCommand(taskID)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.completeTaskHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DepartStop handles POST /api/v1/stops/:stopId/departure.
func (s *Server) DepartStop(ctx echo.Context) error {
	stopID, err := pathUUID(ctx, "stopId")
	if err != nil {
		return badRequest(ctx, "Invalid stop id")
	}

	command, err := commands.NewDepartStopCommand(stopID)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.departStopHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ArriveAtStop handles POST /api/v1/stops/:stopId/arrival.
func (s *Server) ArriveAtStop(ctx echo.Context) error {
	stopID, err := pathUUID(ctx, "stopId")
	if err != nil {
		return badRequest(ctx, "Invalid stop id")
	}

	command, err := commands.NewArriveAtStopCommand(stopID)
	if err != nil {
		return mapError(ctx, err)
	}

	if err = s.arriveAtStopHandler.Handle(ctx.Request().Context(), command); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// mapError translates the error taxonomy into HTTP statuses: business-rule
// violations conflict, validation fails the request, lookup misses are not
// found, and upstream failures surface as bad gateway.
func mapError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrInvalidRequest):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrUpstreamFailure):
		status = http.StatusBadGateway
	}

	return ctx.JSON(status, ErrorResponse{
		Code:      status,
		Message:   err.Error(),
		Retryable: errs.IsRetryable(err),
	})
}
