package bets

import "time"

// Visibilidade de uma aposta nas listagens
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Limites de opções por aposta
const (
	MinOptions = 2
	MaxOptions = 10
)

// Bet é a aposta persistida na tabela apostas.
// Nomes de coluna e de JSON seguem o app original (pt-BR).
type Bet struct {
	ID               string     `json:"id"`
	Titulo           string     `json:"titulo"`
	Descricao        string     `json:"descricao,omitempty"`
	Opcoes           []string   `json:"opcoes"`
	ValorAposta      string     `json:"valor_aposta"`
	DataEncerramento time.Time  `json:"data_encerramento"`
	NomeCriador      string     `json:"nome_criador"`
	EmailCriador     string     `json:"email_criador"`
	Visibilidade     Visibility `json:"visibilidade"`
	PermitirSemLogin bool       `json:"permitir_sem_login"`
	ResultadoFinal   string     `json:"resultado_final,omitempty"`
	ApagadaEm        *time.Time `json:"apagada_em,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Finalized informa se o resultado final já foi registrado
func (b *Bet) Finalized() bool { return b.ResultadoFinal != "" }

// Deleted informa se a aposta foi removida (soft delete)
func (b *Bet) Deleted() bool { return b.ApagadaEm != nil }

// HasOption verifica se a opção pertence à aposta
func (b *Bet) HasOption(option string) bool {
	for _, o := range b.Opcoes {
		if o == option {
			return true
		}
	}
	return false
}

// Vote é um voto persistido na tabela apostas_feitas.
// Votos nunca são apagados; apenas a flag considerada muda.
type Vote struct {
	ID             string    `json:"id"`
	ApostaID       string    `json:"aposta_id"`
	NomeApostador  string    `json:"nome_apostador"`
	OpcaoEscolhida string    `json:"opcao_escolhida"`
	Considerada    bool      `json:"considerada"`
	CreatedAt      time.Time `json:"created_at"`
}
