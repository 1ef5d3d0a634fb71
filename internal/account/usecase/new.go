package usecase

import (
	"emaktab-snapshot/internal/account"
	"emaktab-snapshot/internal/account/repository"
	"emaktab-snapshot/pkg/log"
)

// implUseCase is the private implementation of account.UseCase.
type implUseCase struct {
	repo repository.Repository
	l    log.Logger
}

// New creates a new account UseCase implementation.
func New(repo repository.Repository, l log.Logger) account.UseCase {
	return &implUseCase{
		repo: repo,
		l:    l,
	}
}
