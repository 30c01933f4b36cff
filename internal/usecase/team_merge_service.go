package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matchontv/reconcile/internal/domain/team"
	"github.com/matchontv/reconcile/internal/platform/logging"
)

// MergePair names the surviving row and the row to fold into it.
type MergePair struct {
	KeepID   int64 `validate:"required,gt=0"`
	DeleteID int64 `validate:"required,gt=0,nefield=KeepID"`
}

// MergeReport is the outcome of one attempted pair.
type MergeReport struct {
	Pair          MergePair
	HomeRewritten int64
	AwayRewritten int64
	KeepFixtures  int64
	Err           error
}

// MergeResult summarizes a merge run. Failed pairs carry their error in
// Reports; the run keeps going past them.
type MergeResult struct {
	Merged  int
	Failed  int
	Reports []MergeReport
}

type TeamMergeService struct {
	teamRepo  team.Repository
	validator *validator.Validate
	logger    *logging.Logger
}

func NewTeamMergeService(teamRepo team.Repository, logger *logging.Logger) *TeamMergeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamMergeService{
		teamRepo:  teamRepo,
		validator: validator.New(),
		logger:    logger,
	}
}

// DetectDuplicates lists external ids claimed by more than one canonical
// row. The proposed survivor is the row with the most fixtures; the
// store breaks ties on lower id.
func (s *TeamMergeService) DetectDuplicates(ctx context.Context) ([]team.DuplicatePair, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMergeService.DetectDuplicates")
	defer span.End()

	if s.teamRepo == nil {
		return nil, fmt.Errorf("%w: team merge service is not fully configured", ErrDependencyUnavailable)
	}

	pairs, err := s.teamRepo.ListDuplicateExternalIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list duplicate team external ids: %w", err)
	}
	return pairs, nil
}

// MergePairs folds each delete row into its keep row. Every pair is
// validated and verified against the store before its transactional
// merge; one failed pair does not stop the rest.
func (s *TeamMergeService) MergePairs(ctx context.Context, pairs []MergePair) (MergeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMergeService.MergePairs")
	defer span.End()

	var result MergeResult
	if s.teamRepo == nil {
		return result, fmt.Errorf("%w: team merge service is not fully configured", ErrDependencyUnavailable)
	}
	if len(pairs) == 0 {
		return result, fmt.Errorf("%w: no merge pairs given", ErrInvalidInput)
	}

	for _, pair := range pairs {
		report := MergeReport{Pair: pair}
		report.Err = s.mergeOne(ctx, pair, &report)
		if report.Err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "team merge failed",
				"keep_id", pair.KeepID,
				"delete_id", pair.DeleteID,
				"error", report.Err,
			)
		} else {
			result.Merged++
			s.logger.InfoContext(ctx, "team merged",
				"keep_id", pair.KeepID,
				"delete_id", pair.DeleteID,
				"home_rewritten", report.HomeRewritten,
				"away_rewritten", report.AwayRewritten,
				"keep_fixtures", report.KeepFixtures,
			)
		}
		result.Reports = append(result.Reports, report)
	}

	return result, nil
}

func (s *TeamMergeService) mergeOne(ctx context.Context, pair MergePair, report *MergeReport) error {
	if err := s.validator.StructCtx(ctx, pair); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}

	if _, found, err := s.teamRepo.GetByID(ctx, pair.KeepID); err != nil {
		return fmt.Errorf("load keep team id=%d: %w", pair.KeepID, err)
	} else if !found {
		return fmt.Errorf("%w: keep team id=%d", ErrNotFound, pair.KeepID)
	}
	if _, found, err := s.teamRepo.GetByID(ctx, pair.DeleteID); err != nil {
		return fmt.Errorf("load delete team id=%d: %w", pair.DeleteID, err)
	} else if !found {
		return fmt.Errorf("%w: delete team id=%d", ErrNotFound, pair.DeleteID)
	}

	outcome, err := s.teamRepo.Merge(ctx, pair.KeepID, pair.DeleteID)
	if err != nil {
		return fmt.Errorf("merge team %d into %d: %w", pair.DeleteID, pair.KeepID, err)
	}

	report.HomeRewritten = outcome.HomeRewritten
	report.AwayRewritten = outcome.AwayRewritten
	report.KeepFixtures = outcome.KeepFixtures
	return nil
}
