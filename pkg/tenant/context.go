package tenant

import (
	"context"
)

type contextKey string

// tenantIDKey é a chave usada para armazenar a organização no contexto
const tenantIDKey contextKey = "tenant_id"

// SetTenantIDContext define a organização no contexto
func SetTenantIDContext(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantIDFromContext obtém a organização do contexto
func GetTenantIDFromContext(ctx context.Context) string {
	if tenantID, ok := ctx.Value(tenantIDKey).(string); ok {
		return tenantID
	}
	return ""
}
