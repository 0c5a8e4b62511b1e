package auth

import "context"

// Identity é quem o provedor OAuth autenticou.
// O email é a autoridade pra checagens de dono; o nome é só exibição.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ctxKey struct{}

// WithIdentity anexa a identidade ao contexto da requisição
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext retorna a identidade autenticada, se houver
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
