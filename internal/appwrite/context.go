package appwrite

import "context"

type apiKeyContextKey struct{}

// ContextWithKey attaches a per-request API key override to the context.
// The handler uses this when a delivery carries its own X-Appwrite-Key
// header instead of relying on the configured key.
func ContextWithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey{}, key)
}

// KeyFromContext retrieves the per-request API key override, if any.
func KeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(apiKeyContextKey{}).(string)
	return key, ok && key != ""
}
