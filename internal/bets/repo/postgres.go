package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/radieske/aposta-facil/internal/bets"
)

// Postgres implementa bets.Repository sobre as tabelas apostas e apostas_feitas
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const betColumns = `id, titulo, COALESCE(descricao,''), opcoes, valor_aposta, data_encerramento,
	nome_criador, email_criador, visibilidade, permitir_sem_login,
	COALESCE(resultado_final,''), apagada_em, created_at`

// CreateBet insere uma nova aposta
func (p *Postgres) CreateBet(ctx context.Context, b *bets.Bet) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO apostas (id, titulo, descricao, opcoes, valor_aposta, data_encerramento,
			nome_criador, email_criador, visibilidade, permitir_sem_login, created_at)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.Titulo, b.Descricao, pq.Array(b.Opcoes), b.ValorAposta, b.DataEncerramento,
		b.NomeCriador, b.EmailCriador, string(b.Visibilidade), b.PermitirSemLogin, b.CreatedAt,
	)
	return err
}

// GetBet retorna a aposta pelo id, inclusive soft-deletadas
func (p *Postgres) GetBet(ctx context.Context, id string) (*bets.Bet, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+betColumns+` FROM apostas WHERE id=$1`, id)
	b, err := scanBet(row)
	if err == sql.ErrNoRows {
		return nil, bets.ErrNotFound
	}
	return b, err
}

// ListBets retorna apostas não deletadas: públicas pra todo mundo e privadas
// do próprio requester, mais recentes primeiro
func (p *Postgres) ListBets(ctx context.Context, requesterEmail string) ([]bets.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+betColumns+`
		FROM apostas
		WHERE apagada_em IS NULL
		  AND (visibilidade = 'public' OR ($1 <> '' AND email_criador = $1))
		ORDER BY created_at DESC`, requesterEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bets.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// CreateVote insere um voto novo; votos existentes nunca mudam por aqui
func (p *Postgres) CreateVote(ctx context.Context, v *bets.Vote) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO apostas_feitas (id, aposta_id, nome_apostador, opcao_escolhida, considerada, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.ApostaID, v.NomeApostador, v.OpcaoEscolhida, v.Considerada, v.CreatedAt,
	)
	return err
}

// GetVote retorna um voto pelo id
func (p *Postgres) GetVote(ctx context.Context, id string) (*bets.Vote, error) {
	var v bets.Vote
	err := p.db.QueryRowContext(ctx, `
		SELECT id, aposta_id, nome_apostador, opcao_escolhida, considerada, created_at
		FROM apostas_feitas WHERE id=$1`, id).
		Scan(&v.ID, &v.ApostaID, &v.NomeApostador, &v.OpcaoEscolhida, &v.Considerada, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, bets.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVotes retorna os votos da aposta em ordem de chegada
func (p *Postgres) ListVotes(ctx context.Context, betID string) ([]bets.Vote, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, aposta_id, nome_apostador, opcao_escolhida, considerada, created_at
		FROM apostas_feitas WHERE aposta_id=$1 ORDER BY created_at ASC`, betID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bets.Vote
	for rows.Next() {
		var v bets.Vote
		if err := rows.Scan(&v.ID, &v.ApostaID, &v.NomeApostador, &v.OpcaoEscolhida, &v.Considerada, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// FinalizeBet grava o resultado final num único update condicional.
// applied=false quando outra sessão já finalizou (ou a aposta sumiu).
func (p *Postgres) FinalizeBet(ctx context.Context, betID, result string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE apostas SET resultado_final=$2
		WHERE id=$1 AND resultado_final IS NULL AND apagada_em IS NULL`,
		betID, result)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SoftDeleteBet marca apagada_em; idempotência fica a cargo da condição
func (p *Postgres) SoftDeleteBet(ctx context.Context, betID string, at time.Time) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE apostas SET apagada_em=$2
		WHERE id=$1 AND apagada_em IS NULL`,
		betID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetVoteConsidered grava a flag considerada de um voto
func (p *Postgres) SetVoteConsidered(ctx context.Context, voteID string, considered bool) error {
	res, err := p.db.ExecContext(ctx, `UPDATE apostas_feitas SET considerada=$2 WHERE id=$1`, voteID, considered)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return bets.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBet(row scanner) (*bets.Bet, error) {
	var (
		b         bets.Bet
		vis       string
		apagadaEm sql.NullTime
	)
	err := row.Scan(&b.ID, &b.Titulo, &b.Descricao, pq.Array(&b.Opcoes), &b.ValorAposta,
		&b.DataEncerramento, &b.NomeCriador, &b.EmailCriador, &vis, &b.PermitirSemLogin,
		&b.ResultadoFinal, &apagadaEm, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Visibilidade = bets.Visibility(vis)
	if apagadaEm.Valid {
		t := apagadaEm.Time
		b.ApagadaEm = &t
	}
	return &b, nil
}
