package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/radieske/aposta-facil/internal/bets"
)

func TestMemoryListVotesStableOnTiedTimestamps(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// todos os votos com o mesmo created_at: a ordem de chegada decide
	var want []string
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("v%d", i)
		want = append(want, id)
		err := m.CreateVote(ctx, &bets.Vote{
			ID:             id,
			ApostaID:       "b1",
			NomeApostador:  "n" + id,
			OpcaoEscolhida: "A",
			Considerada:    true,
			CreatedAt:      at,
		})
		if err != nil {
			t.Fatalf("CreateVote: %v", err)
		}
	}

	for round := 0; round < 5; round++ {
		votes, err := m.ListVotes(ctx, "b1")
		if err != nil {
			t.Fatalf("ListVotes: %v", err)
		}
		if len(votes) != len(want) {
			t.Fatalf("len = %d, want %d", len(votes), len(want))
		}
		for i, v := range votes {
			if v.ID != want[i] {
				t.Fatalf("round %d: votes[%d] = %s, want %s", round, i, v.ID, want[i])
			}
		}
	}
}

func TestMemoryListVotesOrdersByCreatedAt(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// inseridos fora de ordem cronológica
	for i, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		err := m.CreateVote(ctx, &bets.Vote{
			ID:        fmt.Sprintf("v%d", i),
			ApostaID:  "b1",
			CreatedAt: at.Add(offset),
		})
		if err != nil {
			t.Fatalf("CreateVote: %v", err)
		}
	}

	votes, err := m.ListVotes(ctx, "b1")
	if err != nil {
		t.Fatalf("ListVotes: %v", err)
	}
	got := []string{votes[0].ID, votes[1].ID, votes[2].ID}
	if got[0] != "v1" || got[1] != "v2" || got[2] != "v0" {
		t.Errorf("order = %v, want [v1 v2 v0]", got)
	}
}
