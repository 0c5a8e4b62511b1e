package analytics

import "context"

// Nomes de evento reaproveitados do catálogo do frontend.
// Mantidos idênticos para que os funis existentes continuem agregando.
const (
	EventUserLogin  = "User Login"
	EventUserLogout = "User Logout"

	EventBetCreationSuccess = "Bet Creation Success"
	EventBetCreationError   = "Bet Creation Error"

	EventBetView        = "Bet View"
	EventBetVoteSuccess = "Bet Vote Success"
	EventBetVoteError   = "Bet Vote Error"

	EventBetFinalizeSuccess = "Bet Finalize Success"
	EventBetFinalizeError   = "Bet Finalize Error"

	EventBetDeleted  = "Bet Deleted"
	EventVoteToggled = "Bet Vote Consideration Toggled"
)

// Tracker publica eventos de produto. A aplicação nunca depende dele
// para correção: falhas são contabilizadas e descartadas.
type Tracker interface {
	Track(ctx context.Context, event string, props map[string]any)
}

// Noop descarta todos os eventos (testes e ambiente local sem Kafka)
type Noop struct{}

func (Noop) Track(context.Context, string, map[string]any) {}
