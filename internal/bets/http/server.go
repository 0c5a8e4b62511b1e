package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/aposta-facil/internal/analytics"
	"github.com/radieske/aposta-facil/internal/auth"
	"github.com/radieske/aposta-facil/internal/bets"
	"github.com/radieske/aposta-facil/internal/bets/dto"
	"github.com/radieske/aposta-facil/internal/bets/settlement"
)

// Server expõe as rotas REST das apostas
type Server struct {
	log     *zap.Logger
	store   *bets.Store
	tracker analytics.Tracker
}

func NewServer(log *zap.Logger, store *bets.Store, tracker analytics.Tracker) *Server {
	return &Server{log: log, store: store, tracker: tracker}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/bets", auth.RequireAuth(s.createBet))
	r.Get("/bets", s.listBets)
	r.Get("/bets/{id}", s.getBet)
	r.Post("/bets/{id}/votes", s.castVote)
	// rota legada de voto da primeira versão do app
	r.Post("/bets/{id}", s.castVote)
	r.Post("/bets/{id}/finalize", auth.RequireAuth(s.finalizeBet))
	r.Delete("/bets/{id}", auth.RequireAuth(s.deleteBet))
	r.Post("/votes/{id}/toggle", auth.RequireAuth(s.toggleVote))
	return r
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	bet, err := s.store.CreateBet(r.Context(), bets.CreateBetInput{
		Titulo:           req.Titulo,
		Descricao:        req.Descricao,
		Opcoes:           req.Opcoes,
		ValorAposta:      req.ValorAposta,
		DataEncerramento: req.DataEncerramento,
		NomeCriador:      id.Name,
		EmailCriador:     id.Email,
		Visibilidade:     bets.Visibility(req.Visibilidade),
		PermitirSemLogin: req.PermitirSemLogin,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	// listagem nunca devolve erro pro cliente: array vazio e segue o baile
	w.Header().Set("Cache-Control", "no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")

	var email string
	if id, ok := auth.FromContext(r.Context()); ok {
		email = id.Email
	}

	list, err := s.store.ListBets(r.Context(), email)
	if err != nil {
		s.log.Error("list bets", zap.Error(err))
		writeJSON(w, http.StatusOK, []bets.Bet{})
		return
	}
	if list == nil {
		list = []bets.Bet{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")

	bet, err := s.store.GetBet(r.Context(), betID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// conteúdo de aposta privada só aparece pra quem está logado;
	// o link direto continua funcionando pra qualquer conta
	requester, authenticated := auth.FromContext(r.Context())
	if bet.Visibilidade == bets.VisibilityPrivate && !authenticated {
		s.writeError(w, bets.ErrLoginRequired)
		return
	}

	votes, err := s.store.ListVotes(r.Context(), betID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := dto.BetDetailResponse{
		Aposta:   *bet,
		Votos:    votes,
		Apuracao: settlement.Tally(bet.Opcoes, votes),
	}
	if bet.Finalized() {
		res := settlement.Settle(bet, votes)
		resp.ResumoFinanceiro = &res
	}

	s.tracker.Track(r.Context(), analytics.EventBetView, map[string]any{
		"betId":     bet.ID,
		"isCreator": authenticated && requester.Email == bet.EmailCriador,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) castVote(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")

	var req dto.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	in := bets.CastVoteInput{
		VoterName: req.NomeApostador,
		Option:    req.OpcaoEscolhida,
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		in.AuthEmail = id.Email
		in.AuthName = id.Name
	}

	vote, err := s.store.CastVote(r.Context(), betID, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

func (s *Server) finalizeBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")
	id, _ := auth.FromContext(r.Context())

	var req dto.FinalizeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}
	if req.ResultadoFinal == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "resultado_final é obrigatório"})
		return
	}

	bet, err := s.store.FinalizeBet(r.Context(), betID, req.ResultadoFinal, id.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) deleteBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")
	id, _ := auth.FromContext(r.Context())

	if err := s.store.SoftDeleteBet(r.Context(), betID, id.Email); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleVote(w http.ResponseWriter, r *http.Request) {
	voteID := chi.URLParam(r, "id")
	id, _ := auth.FromContext(r.Context())

	newState, err := s.store.ToggleVoteConsideration(r.Context(), voteID, id.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToggleVoteResponse{VoteID: voteID, Considerada: newState})
}

// writeError traduz a taxonomia de erros do domínio pra status HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *bets.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: verr.Msg})
	case errors.Is(err, bets.ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "opção inválida"})
	case errors.Is(err, bets.ErrLoginRequired):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "login obrigatório"})
	case errors.Is(err, bets.ErrForbidden):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "apenas o criador pode fazer isso"})
	case errors.Is(err, bets.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "aposta não encontrada"})
	case errors.Is(err, bets.ErrGone):
		writeJSON(w, http.StatusGone, dto.ErrorResponse{Error: "aposta removida"})
	case errors.Is(err, bets.ErrBetClosed):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "aposta encerrada"})
	case errors.Is(err, bets.ErrAlreadyFinalized):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "aposta já finalizada"})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "erro interno"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
