package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/aposta-facil/internal/analytics"
	"github.com/radieske/aposta-facil/internal/auth"
	"github.com/radieske/aposta-facil/internal/bets"
	"github.com/radieske/aposta-facil/internal/bets/dto"
	"github.com/radieske/aposta-facil/internal/bets/repo"
)

var (
	alice = auth.Identity{Email: "alice@example.com", Name: "Alice"}
	bob   = auth.Identity{Email: "bob@example.com", Name: "Bob"}
)

func newTestServer(t *testing.T) (*Server, *bets.Store) {
	t.Helper()
	store := bets.NewStore(zap.NewNop(), repo.NewMemory(), analytics.Noop{})
	return NewServer(zap.NewNop(), store, analytics.Noop{}), store
}

// do envia a requisição pelo router, opcionalmente com identidade na sessão
func do(t *testing.T, srv *Server, method, path string, body any, id *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if id != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *id))
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func createBetReq(visibility string) dto.CreateBetRequest {
	return dto.CreateBetRequest{
		Titulo:           "Quem leva a rodada?",
		Opcoes:           []string{"Ana", "Beto"},
		ValorAposta:      "10,00",
		DataEncerramento: time.Now().Add(24 * time.Hour),
		Visibilidade:     visibility,
	}
}

func createBet(t *testing.T, srv *Server, visibility string) bets.Bet {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/bets", createBetReq(visibility), &alice)
	if w.Code != http.StatusCreated {
		t.Fatalf("create bet: status %d, body %s", w.Code, w.Body.String())
	}
	var b bets.Bet
	if err := json.NewDecoder(w.Body).Decode(&b); err != nil {
		t.Fatalf("decode bet: %v", err)
	}
	return b
}

func TestCreateBetEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("requires login", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/bets", createBetReq(""), nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("creates with session identity", func(t *testing.T) {
		b := createBet(t, srv, "")
		if b.EmailCriador != alice.Email || b.NomeCriador != alice.Name {
			t.Errorf("creator = %s/%s, want session identity", b.NomeCriador, b.EmailCriador)
		}
		if b.Visibilidade != bets.VisibilityPublic {
			t.Errorf("visibility = %q, want public default", b.Visibilidade)
		}
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		req := createBetReq("")
		req.Opcoes = []string{"só uma"}
		w := do(t, srv, http.MethodPost, "/bets", req, &alice)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestListBetsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	pub := createBet(t, srv, "public")
	priv := createBet(t, srv, "private")

	t.Run("cache disabled and array body", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/bets", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if cc := w.Header().Get("Cache-Control"); cc != "no-store, must-revalidate" {
			t.Errorf("Cache-Control = %q", cc)
		}
		if pragma := w.Header().Get("Pragma"); pragma != "no-cache" {
			t.Errorf("Pragma = %q", pragma)
		}

		var list []bets.Bet
		if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(list) != 1 || list[0].ID != pub.ID {
			t.Errorf("anonymous list must hold only the public bet")
		}
	})

	t.Run("creator sees own private bets", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/bets", nil, &alice)
		var list []bets.Bet
		if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(list) != 2 {
			t.Errorf("creator list = %d bets, want 2", len(list))
		}
	})

	t.Run("stranger does not see private bets", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/bets", nil, &bob)
		var list []bets.Bet
		if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		for _, b := range list {
			if b.ID == priv.ID {
				t.Error("private bet leaked to another user's listing")
			}
		}
	})
}

func TestGetBetEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("not found", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/bets/nope", nil, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("private needs login, any account works", func(t *testing.T) {
		priv := createBet(t, srv, "private")

		w := do(t, srv, http.MethodGet, "/bets/"+priv.ID, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("anonymous status = %d, want 401", w.Code)
		}

		w = do(t, srv, http.MethodGet, "/bets/"+priv.ID, nil, &bob)
		if w.Code != http.StatusOK {
			t.Errorf("direct link with login status = %d, want 200", w.Code)
		}
	})

	t.Run("detail carries votes, tally and settlement", func(t *testing.T) {
		b := createBet(t, srv, "public")

		for i := 0; i < 3; i++ {
			w := do(t, srv, http.MethodPost, "/bets/"+b.ID+"/votes",
				dto.CastVoteRequest{OpcaoEscolhida: "Ana"}, &bob)
			if w.Code != http.StatusCreated {
				t.Fatalf("vote %d: status %d, body %s", i, w.Code, w.Body.String())
			}
		}

		w := do(t, srv, http.MethodGet, "/bets/"+b.ID, nil, nil)
		var detail dto.BetDetailResponse
		if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
			t.Fatalf("decode detail: %v", err)
		}
		if detail.Apuracao["Ana"] != 3 || detail.Apuracao["Beto"] != 0 {
			t.Errorf("tally = %v, want Ana:3 Beto:0", detail.Apuracao)
		}
		if detail.ResumoFinanceiro != nil {
			t.Error("settlement must be absent before finalization")
		}

		w = do(t, srv, http.MethodPost, "/bets/"+b.ID+"/finalize",
			dto.FinalizeBetRequest{ResultadoFinal: "Ana"}, &alice)
		if w.Code != http.StatusOK {
			t.Fatalf("finalize: status %d, body %s", w.Code, w.Body.String())
		}

		w = do(t, srv, http.MethodGet, "/bets/"+b.ID, nil, nil)
		if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
			t.Fatalf("decode detail: %v", err)
		}
		if detail.ResumoFinanceiro == nil {
			t.Fatal("settlement must be present after finalization")
		}
		if detail.ResumoFinanceiro.TotalPool != 30.0 {
			t.Errorf("total pool = %v, want 30", detail.ResumoFinanceiro.TotalPool)
		}
		if detail.ResumoFinanceiro.PrizePerWinner != 10.0 {
			t.Errorf("prize per winner = %v, want 10", detail.ResumoFinanceiro.PrizePerWinner)
		}
	})
}

func TestVoteEndpointLegacyRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	b := createBet(t, srv, "public")

	// rota antiga POST /bets/{id} continua aceitando votos
	w := do(t, srv, http.MethodPost, "/bets/"+b.ID,
		dto.CastVoteRequest{OpcaoEscolhida: "Beto"}, &bob)
	if w.Code != http.StatusCreated {
		t.Errorf("legacy vote route: status %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, srv, http.MethodPost, "/bets/"+b.ID,
		dto.CastVoteRequest{OpcaoEscolhida: "Carlos"}, &bob)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid option: status %d, want 400", w.Code)
	}
}

func TestVoteEndpointLoginRequired(t *testing.T) {
	srv, _ := newTestServer(t)
	b := createBet(t, srv, "public")

	w := do(t, srv, http.MethodPost, "/bets/"+b.ID+"/votes",
		dto.CastVoteRequest{NomeApostador: "Zé", OpcaoEscolhida: "Ana"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 when anonymous voting disabled", w.Code)
	}
}

func TestFinalizeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	b := createBet(t, srv, "public")

	t.Run("forbidden for non-creator", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/bets/"+b.ID+"/finalize",
			dto.FinalizeBetRequest{ResultadoFinal: "Ana"}, &bob)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("second finalize conflicts", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/bets/"+b.ID+"/finalize",
			dto.FinalizeBetRequest{ResultadoFinal: "Ana"}, &alice)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		w = do(t, srv, http.MethodPost, "/bets/"+b.ID+"/finalize",
			dto.FinalizeBetRequest{ResultadoFinal: "Beto"}, &alice)
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
	})
}

func TestDeleteEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	b := createBet(t, srv, "public")

	w := do(t, srv, http.MethodDelete, "/bets/"+b.ID, nil, &bob)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-creator delete: status %d, want 403", w.Code)
	}

	w = do(t, srv, http.MethodDelete, "/bets/"+b.ID, nil, &alice)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d, want 204", w.Code)
	}

	// link direto mostra estado removido, não 404 genérico
	w = do(t, srv, http.MethodGet, "/bets/"+b.ID, nil, nil)
	if w.Code != http.StatusGone {
		t.Errorf("deleted bet: status %d, want 410", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/bets", nil, &alice)
	var list []bets.Bet
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	for _, got := range list {
		if got.ID == b.ID {
			t.Error("deleted bet still listed")
		}
	}
}

func TestToggleVoteEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	b := createBet(t, srv, "public")

	vote, err := store.CastVote(context.Background(), b.ID, bets.CastVoteInput{
		AuthEmail: bob.Email, AuthName: bob.Name, Option: "Ana",
	})
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}

	w := do(t, srv, http.MethodPost, "/votes/"+vote.ID+"/toggle", nil, &bob)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-creator toggle: status %d, want 403", w.Code)
	}

	w = do(t, srv, http.MethodPost, "/votes/"+vote.ID+"/toggle", nil, &alice)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: status %d, body %s", w.Code, w.Body.String())
	}
	var resp dto.ToggleVoteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if resp.Considerada {
		t.Error("first toggle must exclude the vote")
	}
}
