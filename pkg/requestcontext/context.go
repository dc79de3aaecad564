// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithAdmin(ctx, "admin@aakseva.org", "Admin")
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	adminEmailKey  struct{}
	adminNameKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
)

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now returns the request time from the context, falling back to the wall
// clock. Tests pin time with WithTime so timestamp assertions are exact.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed request time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// AdminEmail retrieves the authenticated admin's email from the context.
// Empty when the request did not pass the admin middleware.
func AdminEmail(ctx context.Context) string {
	if email, ok := ctx.Value(adminEmailKey{}).(string); ok {
		return email
	}
	return ""
}

// AdminName retrieves the authenticated admin's display name from the context.
func AdminName(ctx context.Context) string {
	if name, ok := ctx.Value(adminNameKey{}).(string); ok {
		return name
	}
	return ""
}

// WithAdmin injects the authenticated admin identity into the context.
func WithAdmin(ctx context.Context, email, name string) context.Context {
	ctx = context.WithValue(ctx, adminEmailKey{}, email)
	return context.WithValue(ctx, adminNameKey{}, name)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the full middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}
