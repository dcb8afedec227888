package captcha

import "context"

// Verifier decides whether a client-submitted captcha token belongs to a
// human. The decision is fail-closed: any doubt resolves to false.
type Verifier interface {
	Verify(ctx context.Context, token string) bool
}
