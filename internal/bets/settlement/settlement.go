// Package settlement calcula apuração e rateio de prêmio de uma aposta.
// Funções puras, sem I/O; só votos considerados entram na conta.
package settlement

import (
	"strconv"
	"strings"

	"github.com/radieske/aposta-facil/internal/bets"
)

// Winner é um voto vencedor, com o nome exibido na lista de ganhadores
type Winner struct {
	VoteID        string `json:"vote_id"`
	NomeApostador string `json:"nome_apostador"`
}

// Result é o resumo financeiro de uma aposta
type Result struct {
	Tally          map[string]int `json:"tally"`
	TotalPool      float64        `json:"total_pool"`
	Winners        []Winner       `json:"winners"`
	PrizePerWinner float64        `json:"prize_per_winner"`
}

// ParseStake converte o valor livre digitado ("R$ 10,00") em número.
// Remove tudo que não for dígito ou vírgula, troca só a PRIMEIRA vírgula por
// ponto e lê apenas o prefixo numérico; entrada não parseável vale 0.
// O comportamento é propositalmente leniente e replica o parser original:
// separador de milhar com vírgula colide com o decimal, então "1,234,56"
// vale 1.234 (quirk conhecido, não corrigir sem decisão de produto).
func ParseStake(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)
	// vírgulas restantes encerram o número (leitura por prefixo)
	if i := strings.IndexByte(cleaned, ','); i >= 0 {
		cleaned = cleaned[:i]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// Tally conta votos considerados por opção. Opções sem voto aparecem com 0;
// não há desempate nem ordenação.
func Tally(opcoes []string, votes []bets.Vote) map[string]int {
	counts := make(map[string]int, len(opcoes))
	for _, o := range opcoes {
		counts[o] = 0
	}
	for _, v := range votes {
		if !v.Considerada {
			continue
		}
		if _, ok := counts[v.OpcaoEscolhida]; ok {
			counts[v.OpcaoEscolhida]++
		}
	}
	return counts
}

// Settle produz o resumo financeiro completo da aposta.
// Cada voto considerado contribui uma unidade de valor pro bolo, inclusive
// votos em opções perdedoras. Antes do resultado final só a apuração vale.
func Settle(bet *bets.Bet, votes []bets.Vote) Result {
	res := Result{
		Tally:   Tally(bet.Opcoes, votes),
		Winners: []Winner{},
	}

	stake := ParseStake(bet.ValorAposta)
	considered := 0
	for _, v := range votes {
		if v.Considerada {
			considered++
		}
	}
	res.TotalPool = float64(considered) * stake

	if !bet.Finalized() {
		return res
	}

	for _, v := range votes {
		if v.Considerada && v.OpcaoEscolhida == bet.ResultadoFinal {
			res.Winners = append(res.Winners, Winner{VoteID: v.ID, NomeApostador: v.NomeApostador})
		}
	}
	if len(res.Winners) > 0 {
		res.PrizePerWinner = res.TotalPool / float64(len(res.Winners))
	}
	// sem ganhadores o bolo fica sem destino (não há devolução automática)
	return res
}
