package middleware

import "context"

type contextKey string

const (
	ctxIdentityID contextKey = "identity_id"
	ctxCustomerID contextKey = "customer_id"
	ctxIsStaff    contextKey = "is_staff"
)

func IdentityIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxIdentityID).(string); ok {
		return v
	}
	return ""
}

func CustomerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCustomerID).(string); ok {
		return v
	}
	return ""
}

func IsStaffFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsStaff).(bool); ok {
		return v
	}
	return false
}

// WithIdentityID injects the authenticated identity into the context.
func WithIdentityID(ctx context.Context, identityID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentityID, identityID)
}

// WithCustomerID injects the linked customer identifier into the context for downstream handlers.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCustomerID, customerID)
}

// WithStaff marks the request context as belonging to a staff identity.
func WithStaff(ctx context.Context, isStaff bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIsStaff, isStaff)
}
