package engine

import (
	"github.com/gofiber/fiber/v2"

	"cbac-backend/internal/metadata"
)

// Guard decides whether a request may reach its handler. It is evaluated
// once per request, before the handler runs.
type Guard interface {
	CanActivate(ec *ExecutionContext) bool
}

// DecisionGuard is a Guard that can explain a denial. Check returns nil to
// let the request through, or the error to respond with.
type DecisionGuard interface {
	Guard
	Check(ec *ExecutionContext) error
}

// ExecutionContext gives guards access to the current request and to the
// handler it is routed to.
type ExecutionContext struct {
	ctx     *fiber.Ctx
	handler metadata.HandlerID
	class   metadata.HandlerID
}

func NewExecutionContext(c *fiber.Ctx, handler, class metadata.HandlerID) *ExecutionContext {
	return &ExecutionContext{ctx: c, handler: handler, class: class}
}

// Request returns the Fiber context of the current request.
func (ec *ExecutionContext) Request() *fiber.Ctx {
	return ec.ctx
}

// Handler returns the id of the target handler.
func (ec *ExecutionContext) Handler() metadata.HandlerID {
	return ec.handler
}

// Class returns the id of the group the handler was registered in, or ""
// for top-level routes.
func (ec *ExecutionContext) Class() metadata.HandlerID {
	return ec.class
}

func runGuard(g Guard, ec *ExecutionContext) error {
	if dg, ok := g.(DecisionGuard); ok {
		return dg.Check(ec)
	}
	if !g.CanActivate(ec) {
		return ForbiddenError("Forbidden resource")
	}
	return nil
}
