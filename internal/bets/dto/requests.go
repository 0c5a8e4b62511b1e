package dto

import "time"

// CreateBetRequest é o corpo de POST /bets.
// A identidade do criador vem da sessão, não do corpo.
type CreateBetRequest struct {
	Titulo           string    `json:"titulo"`
	Descricao        string    `json:"descricao"`
	Opcoes           []string  `json:"opcoes"`
	ValorAposta      string    `json:"valor_aposta"` // texto livre, ex: "10,00"
	DataEncerramento time.Time `json:"data_encerramento"`
	Visibilidade     string    `json:"visibilidade"`       // default "public"
	PermitirSemLogin bool      `json:"permitir_sem_login"` // default false
}

// CastVoteRequest é o corpo de POST /bets/{id}/votes
type CastVoteRequest struct {
	NomeApostador  string `json:"nome_apostador"`
	OpcaoEscolhida string `json:"opcao_escolhida"`
}

// FinalizeBetRequest é o corpo de POST /bets/{id}/finalize
type FinalizeBetRequest struct {
	ResultadoFinal string `json:"resultado_final"`
}
