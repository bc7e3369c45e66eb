package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// CompleteTaskCommandHandler marks a task done and cascades the completion:
// an assignment completes when both of its tasks are done, a stop completes
// when every task at it is done.
type CompleteTaskCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
}

func NewCompleteTaskCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService) CompleteTaskCommandHandler {
	return CompleteTaskCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
	}
}

func (h CompleteTaskCommandHandler) Handle(ctx context.Context,
	command CompleteTaskCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()
	stopRepo := uow.StopRepository()

	task, err := assignmentRepo.GetTask(ctx, command.TaskID())
	if err != nil {
		return err
	}
	assignment, err := assignmentRepo.Get(ctx, task.AssignmentID())
	if err != nil {
		return err
	}

	if err := uow.LockDriver(ctx, assignment.DriverID()); err != nil {
		return err
	}

	if err := task.Complete(now); err != nil {
		return err
	}
	if err := assignmentRepo.UpdateTask(ctx, task); err != nil {
		return err
	}

	siblings, err := assignmentRepo.GetTasksByAssignments(ctx,
		[]kernel.UUID{assignment.ID()})
	if err != nil {
		return err
	}
	if allCompleted(refresh(siblings, task)) {
		if err := assignment.Complete(now); err != nil {
			return err
		}
		if err := assignmentRepo.Update(ctx, assignment); err != nil {
			return err
		}
	}

	atStop, err := assignmentRepo.GetTasksByStop(ctx, task.StopID())
	if err != nil {
		return err
	}
	if allCompleted(refresh(atStop, task)) {
		stop, err := stopRepo.Get(ctx, task.StopID())
		if err != nil {
			return err
		}
		stop.MarkCompleted(now)
		if err := stopRepo.Update(ctx, stop); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.EventPackagePickedUp
	if task.Type() == delivery.TaskTypeDropOff {
		event = ports.EventPackageDelivered
	}
	emitPackageEvents(h.orderService, event,
		eventTarget{packageID: assignment.PackageID(), assignmentID: assignment.ID()})

	return nil
}

func allCompleted(tasks []*delivery.Task) bool {
	for _, task := range tasks {
		if !task.IsCompleted() {
			return false
		}
	}
	return true
}

// refresh swaps the stale copy of the just-completed task for the mutated
// one, the repository read happened in the same transaction but returned its
// own instances.
func refresh(tasks []*delivery.Task, completed *delivery.Task) []*delivery.Task {
	for i, task := range tasks {
		if task.ID().IsEqual(completed.ID()) {
			tasks[i] = completed
		}
	}
	return tasks
}
