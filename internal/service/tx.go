package service

import "context"

// TxRepositories exposes the repositories that participate in a single
// database transaction.
type TxRepositories interface {
	Chats() ChatRepositoryInterface
	Sentences() SentenceRepositoryInterface
	SummaryJobs() SummaryJobRepositoryInterface
}

// TxRunnerInterface runs a function within a database transaction.
type TxRunnerInterface interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
