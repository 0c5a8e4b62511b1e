package db

import (
	"database/sql"
	"fmt"
)

// EnsureSchema cria as tabelas do serviço caso ainda não existam.
// Seguro para múltiplas execuções (IF NOT EXISTS).
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
-- Apostas
CREATE TABLE IF NOT EXISTS apostas (
    id TEXT PRIMARY KEY,
    titulo TEXT NOT NULL,
    descricao TEXT,
    opcoes TEXT[] NOT NULL,
    valor_aposta TEXT NOT NULL,
    data_encerramento TIMESTAMPTZ NOT NULL,
    nome_criador TEXT NOT NULL,
    email_criador TEXT NOT NULL,
    visibilidade TEXT NOT NULL DEFAULT 'public' CHECK (visibilidade IN ('public', 'private')),
    permitir_sem_login BOOLEAN NOT NULL DEFAULT FALSE,
    resultado_final TEXT,
    apagada_em TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_apostas_email_criador ON apostas(email_criador);
CREATE INDEX IF NOT EXISTS idx_apostas_created_at ON apostas(created_at DESC);

-- Votos
CREATE TABLE IF NOT EXISTS apostas_feitas (
    id TEXT PRIMARY KEY,
    aposta_id TEXT NOT NULL REFERENCES apostas(id),
    nome_apostador TEXT NOT NULL,
    opcao_escolhida TEXT NOT NULL,
    considerada BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_apostas_feitas_aposta_id ON apostas_feitas(aposta_id);
`
