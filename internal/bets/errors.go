package bets

import (
	"errors"
	"fmt"
)

// Erros de regra de negócio. O handler HTTP traduz cada um para um status.
var (
	ErrNotFound         = errors.New("bet not found")
	ErrGone             = errors.New("bet deleted")
	ErrForbidden        = errors.New("requester is not the creator")
	ErrBetClosed        = errors.New("bet closed for voting")
	ErrAlreadyFinalized = errors.New("bet already finalized")
	ErrInvalidOption    = errors.New("option does not belong to bet")
	ErrLoginRequired    = errors.New("login required to vote on this bet")
)

// ValidationError carrega a mensagem exibida ao usuário no formulário
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError envolve falhas do backend de dados, preservando a mensagem
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(err error) error {
	return &PersistenceError{Err: err}
}
