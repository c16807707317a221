package middleware

import (
	"strings"

	"skillswap/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// routeResources names the entity an ":id" segment refers to, keyed by the
// path segment in front of it.
var routeResources = map[string]string{
	"skills":    "skill",
	"requests":  "service_request",
	"profiles":  "profile",
	"chatrooms": "chat_room",
}

// TracingMiddleware opens a server span per request. The span is named after
// the matched route, so /api/skills/3 and /api/skills/4 share a name, and it
// carries the caller, the request id and the marketplace ids in the path.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Method()),
				attribute.String("url.path", c.Path()),
				attribute.String("client.address", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		if rid, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("skillswap.request_id", rid))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(attribute.String("http.route", route))
		span.SetAttributes(routeAttributes(c, route)...)

		if uid, ok := c.Locals("userID").(uint); ok {
			span.SetAttributes(attribute.Int64("enduser.id", int64(uid)))
		}
		if group, ok := c.Locals("chatGroup").(string); ok {
			span.SetAttributes(attribute.String("skillswap.chat.group", group))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, "")
		}

		return err
	}
}

// routeAttributes turns the path parameters of route into span attributes,
// e.g. /api/skills/:id gives skillswap.skill.id and /ws/chat/:room gives
// skillswap.room.
func routeAttributes(c *fiber.Ctx, route string) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	segments := strings.Split(strings.Trim(route, "/"), "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(seg, ":"), "?")
		value := c.Params(name)
		if value == "" {
			continue
		}
		key := name
		if name == "id" && i > 0 {
			if resource, ok := routeResources[segments[i-1]]; ok {
				key = resource + ".id"
			}
		}
		attrs = append(attrs, attribute.String("skillswap."+key, value))
	}
	return attrs
}
