package dto

import (
	"github.com/radieske/aposta-facil/internal/bets"
	"github.com/radieske/aposta-facil/internal/bets/settlement"
)

// BetDetailResponse é a visão completa de uma aposta (página de detalhe):
// a aposta, os votos, a apuração parcial e, depois de finalizada, o resumo
// financeiro com ganhadores e prêmio.
type BetDetailResponse struct {
	Aposta           bets.Bet           `json:"aposta"`
	Votos            []bets.Vote        `json:"votos"`
	Apuracao         map[string]int     `json:"apuracao"`
	ResumoFinanceiro *settlement.Result `json:"resumo_financeiro,omitempty"`
}

// ToggleVoteResponse devolve o novo estado da flag considerada
type ToggleVoteResponse struct {
	VoteID      string `json:"vote_id"`
	Considerada bool   `json:"considerada"`
}

// ErrorResponse é o corpo padrão de erro
type ErrorResponse struct {
	Error string `json:"error"`
}
