package team

import "context"

// MergeOutcome reports what a transactional merge touched.
type MergeOutcome struct {
	HomeRewritten int64
	AwayRewritten int64
	KeepFixtures  int64
}

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	ListDuplicateExternalIDs(ctx context.Context) ([]DuplicatePair, error)
	SetExternalID(ctx context.Context, id, externalID int64) error

	// Merge rewrites every fixture referencing deleteID (home first,
	// then away), recounts the fixtures now attached to keepID and
	// deletes the losing row, all inside one transaction.
	Merge(ctx context.Context, keepID, deleteID int64) (MergeOutcome, error)
}
