package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepCommandIsNotConstructed = errors.New(
	"SweepCommand must be created via NewSweepCommand constructor",
)

// SweepCommand triggers one pass of the automatic dispatcher: expire stale
// pending assignments, then hand every ready package to the best placed
// driver.
type SweepCommand struct {
	guard guard.ConstructorGuard
}

func NewSweepCommand() SweepCommand {
	return SweepCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *SweepCommand) Validate() error {
	return c.guard.Validate(ErrSweepCommandIsNotConstructed)
}
