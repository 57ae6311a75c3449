package repository

import "context"

// Tx exposes repositories bound to one database transaction.
type Tx struct {
	Studies StudyRepository
	Members StudyMemberRepository
}

// TxRunner runs fn inside a transaction. A non-nil error from fn rolls everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Stores bundles the repositories of one backing store.
type Stores struct {
	Users   UserRepository
	Studies StudyRepository
	Members StudyMemberRepository
	Tx      TxRunner
}
