// Package health implements liveness and readiness probes.
package health

import (
	"context"
	"time"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckFunc adapts a function returning an error into a Checker.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func NewCheckFunc(name string, fn func(ctx context.Context) error) CheckFunc {
	return CheckFunc{name: name, fn: fn}
}

func (c CheckFunc) Name() string { return c.name }

func (c CheckFunc) Check(ctx context.Context) Result {
	if err := c.fn(ctx); err != nil {
		return Result{Status: StatusDown, Message: err.Error()}
	}
	return Result{Status: StatusUp}
}
