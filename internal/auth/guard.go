package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hashicorp/go-hclog"

	"cbac-backend/internal/engine"
	"cbac-backend/internal/instrument"
	"cbac-backend/internal/metadata"
)

// Reason explains the outcome of a permission check.
type Reason string

const (
	ReasonNoRequirement      Reason = "no_requirement"
	ReasonGranted            Reason = "granted"
	ReasonMissingPermissions Reason = "missing_permissions"
	ReasonUnauthenticated    Reason = "unauthenticated"
	ReasonInvalidRequirement Reason = "invalid_requirement"
)

// Decision is the result of evaluating the permission requirement of a
// handler against the user of a request.
type Decision struct {
	Allowed  bool                  `json:"allowed"`
	Reason   Reason                `json:"reason"`
	Required []metadata.Permission `json:"required,omitempty"`
	Missing  []metadata.Permission `json:"missing,omitempty"`
}

// PermissionsGuard lets a request through when its user holds every
// permission attached to the target handler with RequirePermissions.
// Handlers without a requirement are not restricted.
type PermissionsGuard struct {
	reflector *metadata.Reflector
	sink      instrument.Sink
	logger    hclog.Logger
}

// NewPermissionsGuard creates a guard reading requirements through the
// reflector. A nil sink disables diagnostics; a nil logger discards errors.
func NewPermissionsGuard(reflector *metadata.Reflector, sink instrument.Sink, logger hclog.Logger) *PermissionsGuard {
	if sink == nil {
		sink = &instrument.NoopSink{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PermissionsGuard{reflector: reflector, sink: sink, logger: logger}
}

// CanActivate reports whether the request may proceed.
func (g *PermissionsGuard) CanActivate(ec *engine.ExecutionContext) bool {
	return g.Evaluate(ec).Allowed
}

// Check maps a denial to the error the router responds with.
func (g *PermissionsGuard) Check(ec *engine.ExecutionContext) error {
	d := g.Evaluate(ec)
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return engine.UnauthorizedError("Authentication required")
	default:
		return engine.ForbiddenError("Forbidden resource")
	}
}

// Evaluate computes the decision for the request in ec.
func (g *PermissionsGuard) Evaluate(ec *engine.ExecutionContext) Decision {
	required, ok, valid := g.reflector.Permissions(ec.Handler())
	if !ok {
		return Decision{Allowed: true, Reason: ReasonNoRequirement}
	}
	if !valid {
		raw, _ := g.reflector.Get(metadata.PermissionsKey, ec.Handler())
		g.logger.Error("permission requirement is not a permission list",
			"handler", string(ec.Handler()), "type", fmt.Sprintf("%T", raw))
		return Decision{Reason: ReasonInvalidRequirement}
	}

	c := ec.Request()
	trace := g.traceArgs(c, ec.Handler())
	g.emit("required permissions", trace, "required", required)

	user := GetUser(c)
	if user == nil {
		g.emit("user permissions", trace, "authenticated", false)
	} else {
		g.emit("user permissions", trace, "user_id", user.ID, "permissions", user.Permissions)
	}

	var d Decision
	switch {
	case len(required) == 0:
		d = Decision{Allowed: true, Reason: ReasonGranted, Required: required}
	case user == nil:
		d = Decision{
			Reason:   ReasonUnauthenticated,
			Required: required,
			Missing:  required,
		}
	default:
		d = Decision{Allowed: true, Reason: ReasonGranted, Required: required}
		if missing := metadata.MissingPermissions(required, user.Permissions); len(missing) > 0 {
			d = Decision{Reason: ReasonMissingPermissions, Required: required, Missing: missing}
		}
	}
	g.emit("has required permissions", trace, "allowed", d.Allowed, "reason", string(d.Reason))
	return d
}

func (g *PermissionsGuard) traceArgs(c *fiber.Ctx, id metadata.HandlerID) []any {
	if !g.sink.Enabled() {
		return nil
	}
	args := []any{"handler", string(id)}
	if rid, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && rid != "" {
		args = append(args, "request_id", rid)
	}
	return args
}

func (g *PermissionsGuard) emit(msg string, trace []any, args ...any) {
	if !g.sink.Enabled() {
		return
	}
	g.sink.Emit(msg, append(append([]any{}, trace...), args...)...)
}
