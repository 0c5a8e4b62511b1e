package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/radieske/aposta-facil/internal/bets"
)

// Memory é a implementação em memória de bets.Repository, usada nos testes
// e como substituto do array global da primeira versão do app.
type Memory struct {
	mu      sync.Mutex
	bets    map[string]bets.Bet
	votes   map[string]bets.Vote
	voteSeq map[string]int // ordem de inserção, desempate de created_at iguais
	nextSeq int
}

func NewMemory() *Memory {
	return &Memory{
		bets:    make(map[string]bets.Bet),
		votes:   make(map[string]bets.Vote),
		voteSeq: make(map[string]int),
	}
}

func (m *Memory) CreateBet(_ context.Context, b *bets.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bets[b.ID] = *b
	return nil
}

func (m *Memory) GetBet(_ context.Context, id string) (*bets.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[id]
	if !ok {
		return nil, bets.ErrNotFound
	}
	cp := b
	return &cp, nil
}

func (m *Memory) ListBets(_ context.Context, requesterEmail string) ([]bets.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []bets.Bet
	for _, b := range m.bets {
		if b.Deleted() {
			continue
		}
		if b.Visibilidade == bets.VisibilityPublic || (requesterEmail != "" && b.EmailCriador == requesterEmail) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CreateVote(_ context.Context, v *bets.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votes[v.ID] = *v
	m.voteSeq[v.ID] = m.nextSeq
	m.nextSeq++
	return nil
}

func (m *Memory) GetVote(_ context.Context, id string) (*bets.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[id]
	if !ok {
		return nil, bets.ErrNotFound
	}
	cp := v
	return &cp, nil
}

func (m *Memory) ListVotes(_ context.Context, betID string) ([]bets.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []bets.Vote
	for _, v := range m.votes {
		if v.ApostaID == betID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return m.voteSeq[out[i].ID] < m.voteSeq[out[j].ID]
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) FinalizeBet(_ context.Context, betID, result string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[betID]
	if !ok || b.Finalized() || b.Deleted() {
		return false, nil
	}
	b.ResultadoFinal = result
	m.bets[betID] = b
	return true, nil
}

func (m *Memory) SoftDeleteBet(_ context.Context, betID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[betID]
	if !ok || b.Deleted() {
		return false, nil
	}
	b.ApagadaEm = &at
	m.bets[betID] = b
	return true, nil
}

func (m *Memory) SetVoteConsidered(_ context.Context, voteID string, considered bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[voteID]
	if !ok {
		return bets.ErrNotFound
	}
	v.Considerada = considered
	m.votes[voteID] = v
	return nil
}
