package bets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/aposta-facil/internal/analytics"
	"github.com/radieske/aposta-facil/internal/shared/metrics"
)

// Store aplica as regras de negócio das apostas sobre um Repository injetado.
// Toda leitura vai direto ao backend; não há cache.
type Store struct {
	log     *zap.Logger
	repo    Repository
	tracker analytics.Tracker
	now     func() time.Time
}

func NewStore(log *zap.Logger, repo Repository, tracker analytics.Tracker) *Store {
	return &Store{log: log, repo: repo, tracker: tracker, now: time.Now}
}

// WithClock troca a fonte de tempo (testes de encerramento)
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// CreateBetInput são os campos aceitos na criação de uma aposta
type CreateBetInput struct {
	Titulo           string
	Descricao        string
	Opcoes           []string
	ValorAposta      string
	DataEncerramento time.Time
	NomeCriador      string
	EmailCriador     string
	Visibilidade     Visibility
	PermitirSemLogin bool
}

// CreateBet valida e persiste uma nova aposta
func (s *Store) CreateBet(ctx context.Context, in CreateBetInput) (*Bet, error) {
	if strings.TrimSpace(in.Titulo) == "" {
		return nil, validationf("titulo é obrigatório")
	}
	if strings.TrimSpace(in.ValorAposta) == "" {
		return nil, validationf("valor_aposta é obrigatório")
	}
	if in.DataEncerramento.IsZero() {
		return nil, validationf("data_encerramento é obrigatória")
	}
	if in.NomeCriador == "" || in.EmailCriador == "" {
		return nil, validationf("identidade do criador é obrigatória")
	}
	if len(in.Opcoes) < MinOptions || len(in.Opcoes) > MaxOptions {
		return nil, validationf("número de opções deve estar entre %d e %d", MinOptions, MaxOptions)
	}
	seen := make(map[string]bool, len(in.Opcoes))
	for _, o := range in.Opcoes {
		if strings.TrimSpace(o) == "" {
			return nil, validationf("opções não podem ser vazias")
		}
		if seen[o] {
			return nil, validationf("opções devem ser distintas")
		}
		seen[o] = true
	}

	vis := in.Visibilidade
	if vis == "" {
		vis = VisibilityPublic
	}
	if vis != VisibilityPublic && vis != VisibilityPrivate {
		return nil, validationf("visibilidade inválida: %s", vis)
	}

	bet := &Bet{
		ID:               uuid.NewString(),
		Titulo:           in.Titulo,
		Descricao:        in.Descricao,
		Opcoes:           in.Opcoes,
		ValorAposta:      in.ValorAposta,
		DataEncerramento: in.DataEncerramento,
		NomeCriador:      in.NomeCriador,
		EmailCriador:     in.EmailCriador,
		Visibilidade:     vis,
		PermitirSemLogin: in.PermitirSemLogin,
		CreatedAt:        s.now(),
	}

	if err := s.repo.CreateBet(ctx, bet); err != nil {
		s.tracker.Track(ctx, analytics.EventBetCreationError, map[string]any{
			"betTitle": in.Titulo, "error": err.Error(),
		})
		return nil, persistErr(err)
	}

	metrics.BetsCreated.Inc()
	s.tracker.Track(ctx, analytics.EventBetCreationSuccess, betProps(bet))
	s.log.Info("bet created", zap.String("bet_id", bet.ID), zap.String("creator", bet.EmailCriador))
	return bet, nil
}

// GetBet retorna a aposta; ErrGone quando soft-deletada (link direto mostra
// estado "removida" em vez de 404 genérico)
func (s *Store) GetBet(ctx context.Context, id string) (*Bet, error) {
	bet, err := s.repo.GetBet(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, persistErr(err)
	}
	if bet.Deleted() {
		return nil, ErrGone
	}
	return bet, nil
}

// ListBets lista públicas para todos e privadas do próprio requester
func (s *Store) ListBets(ctx context.Context, requesterEmail string) ([]Bet, error) {
	list, err := s.repo.ListBets(ctx, requesterEmail)
	if err != nil {
		return nil, persistErr(err)
	}
	return list, nil
}

// ListVotes retorna os votos da aposta em ordem de chegada
func (s *Store) ListVotes(ctx context.Context, betID string) ([]Vote, error) {
	if _, err := s.GetBet(ctx, betID); err != nil {
		return nil, err
	}
	votes, err := s.repo.ListVotes(ctx, betID)
	if err != nil {
		return nil, persistErr(err)
	}
	return votes, nil
}

// CastVoteInput identifica o votante e a opção escolhida.
// AuthEmail/AuthName vêm da sessão; VoterName é o nome digitado (voto anônimo).
type CastVoteInput struct {
	VoterName string
	AuthEmail string
	AuthName  string
	Option    string
}

// CastVote registra um voto novo; nunca altera votos existentes
func (s *Store) CastVote(ctx context.Context, betID string, in CastVoteInput) (*Vote, error) {
	bet, err := s.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}

	voter := in.VoterName
	if !bet.PermitirSemLogin {
		if in.AuthEmail == "" {
			return nil, ErrLoginRequired
		}
		voter = in.AuthName
		if voter == "" {
			voter = in.AuthEmail
		}
	}
	if strings.TrimSpace(voter) == "" {
		return nil, validationf("nome do apostador é obrigatório")
	}
	if !bet.HasOption(in.Option) {
		return nil, ErrInvalidOption
	}
	if bet.Finalized() || !s.now().Before(bet.DataEncerramento) {
		return nil, ErrBetClosed
	}

	vote := &Vote{
		ID:             uuid.NewString(),
		ApostaID:       bet.ID,
		NomeApostador:  voter,
		OpcaoEscolhida: in.Option,
		Considerada:    true,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateVote(ctx, vote); err != nil {
		s.tracker.Track(ctx, analytics.EventBetVoteError, map[string]any{
			"betId": bet.ID, "error": err.Error(),
		})
		return nil, persistErr(err)
	}

	metrics.VotesCast.Inc()
	s.tracker.Track(ctx, analytics.EventBetVoteSuccess, map[string]any{
		"betId":          bet.ID,
		"voterName":      vote.NomeApostador,
		"selectedOption": vote.OpcaoEscolhida,
	})
	return vote, nil
}

// FinalizeBet grava o resultado final exatamente uma vez, só pelo criador
func (s *Store) FinalizeBet(ctx context.Context, betID, result, requesterEmail string) (*Bet, error) {
	bet, err := s.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if requesterEmail == "" || requesterEmail != bet.EmailCriador {
		return nil, ErrForbidden
	}
	if !bet.HasOption(result) {
		return nil, ErrInvalidOption
	}
	if bet.Finalized() {
		return nil, ErrAlreadyFinalized
	}

	// update condicional fecha a corrida entre duas sessões do criador
	applied, err := s.repo.FinalizeBet(ctx, betID, result)
	if err != nil {
		s.tracker.Track(ctx, analytics.EventBetFinalizeError, map[string]any{
			"betId": betID, "finalResult": result, "error": err.Error(),
		})
		return nil, persistErr(err)
	}
	if !applied {
		return nil, ErrAlreadyFinalized
	}

	bet.ResultadoFinal = result
	metrics.BetsFinalized.Inc()
	s.tracker.Track(ctx, analytics.EventBetFinalizeSuccess, mergeProps(betProps(bet), map[string]any{
		"finalResult": result,
	}))
	s.log.Info("bet finalized", zap.String("bet_id", betID), zap.String("result", result))
	return bet, nil
}

// SoftDeleteBet marca a aposta como removida; remoção é terminal
func (s *Store) SoftDeleteBet(ctx context.Context, betID, requesterEmail string) error {
	bet, err := s.repo.GetBet(ctx, betID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return persistErr(err)
	}
	if bet.Deleted() {
		return ErrNotFound
	}
	if requesterEmail == "" || requesterEmail != bet.EmailCriador {
		return ErrForbidden
	}

	applied, err := s.repo.SoftDeleteBet(ctx, betID, s.now())
	if err != nil {
		return persistErr(err)
	}
	if !applied {
		return ErrNotFound
	}

	metrics.BetsDeleted.Inc()
	s.tracker.Track(ctx, analytics.EventBetDeleted, map[string]any{"betId": betID})
	s.log.Info("bet soft-deleted", zap.String("bet_id", betID))
	return nil
}

// ToggleVoteConsideration inverte a flag considerada de um voto.
// Só o criador da aposta dona do voto pode chamar.
func (s *Store) ToggleVoteConsideration(ctx context.Context, voteID, requesterEmail string) (bool, error) {
	vote, err := s.repo.GetVote(ctx, voteID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, persistErr(err)
	}
	bet, err := s.GetBet(ctx, vote.ApostaID)
	if err != nil {
		return false, err
	}
	if requesterEmail == "" || requesterEmail != bet.EmailCriador {
		return false, ErrForbidden
	}

	newState := !vote.Considerada
	if err := s.repo.SetVoteConsidered(ctx, voteID, newState); err != nil {
		return false, persistErr(err)
	}

	s.tracker.Track(ctx, analytics.EventVoteToggled, map[string]any{
		"betId": bet.ID, "voteId": voteID, "considered": newState,
	})
	return newState, nil
}

// betProps espelha o getBetProperties do frontend original
func betProps(b *Bet) map[string]any {
	return map[string]any{
		"betId":        b.ID,
		"betTitle":     b.Titulo,
		"betType":      string(b.Visibilidade),
		"optionsCount": len(b.Opcoes),
		"betValue":     b.ValorAposta,
		"creatorEmail": b.EmailCriador,
		"isOpen":       !b.Finalized(),
	}
}

func mergeProps(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
