package bets

import (
	"context"
	"time"
)

// Repository é o conjunto de capacidades de persistência que o Store exige.
// A implementação de produção é Postgres; testes injetam a versão em memória.
type Repository interface {
	CreateBet(ctx context.Context, b *Bet) error
	// GetBet retorna a aposta mesmo quando soft-deletada (o chamador decide
	// como apresentar); ErrNotFound quando a linha não existe.
	GetBet(ctx context.Context, id string) (*Bet, error)
	// ListBets retorna apostas não deletadas: públicas para todos, privadas
	// apenas do requesterEmail. Ordenadas por created_at decrescente.
	ListBets(ctx context.Context, requesterEmail string) ([]Bet, error)

	CreateVote(ctx context.Context, v *Vote) error
	GetVote(ctx context.Context, id string) (*Vote, error)
	ListVotes(ctx context.Context, betID string) ([]Vote, error)

	// FinalizeBet grava o resultado num update condicional (resultado ainda
	// nulo). applied=false indica que outra sessão finalizou antes.
	FinalizeBet(ctx context.Context, betID, result string) (applied bool, err error)
	// SoftDeleteBet marca apagada_em num update condicional.
	SoftDeleteBet(ctx context.Context, betID string, at time.Time) (applied bool, err error)
	SetVoteConsidered(ctx context.Context, voteID string, considered bool) error
}
