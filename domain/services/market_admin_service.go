package services

import (
	"context"
	"fmt"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type marketAdminService struct {
	gameRepo   interfaces.GameRepository
	futureRepo interfaces.FutureRepository
	propRepo   interfaces.PropRepository
	slateRepo  interfaces.SlateRepository
}

// NewMarketAdminService creates a new market admin service
func NewMarketAdminService(
	gameRepo interfaces.GameRepository,
	futureRepo interfaces.FutureRepository,
	propRepo interfaces.PropRepository,
	slateRepo interfaces.SlateRepository,
) interfaces.MarketAdminService {
	return &marketAdminService{
		gameRepo:   gameRepo,
		futureRepo: futureRepo,
		propRepo:   propRepo,
		slateRepo:  slateRepo,
	}
}

// RecordFinalScore marks the game final with its score. Recording again
// corrects the score for wagers still pending.
func (s *marketAdminService) RecordFinalScore(ctx context.Context, gameID uuid.UUID, homeScore, awayScore int) error {
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("%w: scores cannot be negative", entities.ErrInvalidInput)
	}

	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}

	if err := s.gameRepo.UpdateStatus(ctx, game.ID, entities.GameStatusFinal, &homeScore, &awayScore); err != nil {
		return fmt.Errorf("failed to record final score: %w", err)
	}

	fields := log.Fields{
		"gameID":    game.ID,
		"matchup":   game.AwayTeam + " @ " + game.HomeTeam,
		"homeScore": homeScore,
		"awayScore": awayScore,
	}
	if game.IsFinal() {
		fields["previousHome"] = *game.HomeScore
		fields["previousAway"] = *game.AwayScore
		log.WithFields(fields).Warn("Corrected final score")
		return nil
	}
	log.WithFields(fields).Info("Recorded final score")
	return nil
}

// SetGameStatus moves a game forward to live. Final goes through RecordFinalScore.
func (s *marketAdminService) SetGameStatus(ctx context.Context, gameID uuid.UUID, status entities.GameStatus) error {
	if status == entities.GameStatusFinal {
		return fmt.Errorf("%w: record a final score to finish a game", entities.ErrInvalidInput)
	}
	if status != entities.GameStatusUpcoming && status != entities.GameStatusLive {
		return fmt.Errorf("%w: unknown game status %q", entities.ErrInvalidInput, status)
	}

	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Status == entities.GameStatusFinal {
		return fmt.Errorf("%w: game %s is already final", entities.ErrInvalidInput, gameID)
	}
	if game.Status == status {
		return nil
	}
	if game.Status == entities.GameStatusLive && status == entities.GameStatusUpcoming {
		return fmt.Errorf("%w: a live game cannot reopen for betting", entities.ErrInvalidInput)
	}

	if err := s.gameRepo.UpdateStatus(ctx, game.ID, status, nil, nil); err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID": game.ID,
		"from":   game.Status,
		"to":     status,
	}).Info("Game status changed")
	return nil
}

func (s *marketAdminService) DeclareFutureResult(ctx context.Context, futureID uuid.UUID, result entities.FutureResult) error {
	if result != entities.FutureResultWon && result != entities.FutureResultLost {
		return fmt.Errorf("%w: unknown future result %q", entities.ErrInvalidInput, result)
	}

	future, err := s.futureRepo.GetByID(ctx, futureID)
	if err != nil {
		return fmt.Errorf("failed to get future: %w", err)
	}
	if future == nil {
		return fmt.Errorf("%w: future %s", entities.ErrNotFound, futureID)
	}
	if future.Result != nil {
		return fmt.Errorf("%w: future %q already resolved as %s", entities.ErrInvalidInput, future.SelectionName, *future.Result)
	}

	if err := s.futureRepo.DeclareResult(ctx, future.ID, result); err != nil {
		return fmt.Errorf("failed to declare future result: %w", err)
	}

	log.WithFields(log.Fields{
		"futureID":  future.ID,
		"category":  future.Category,
		"selection": future.SelectionName,
		"result":    result,
	}).Info("Future result declared")
	return nil
}

func (s *marketAdminService) DeclarePropResult(ctx context.Context, propID uuid.UUID, result entities.PropResult) error {
	if result != entities.PropResultSelectionWon && result != entities.PropResultCounterWon {
		return fmt.Errorf("%w: unknown prop result %q", entities.ErrInvalidInput, result)
	}

	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return fmt.Errorf("failed to get prop: %w", err)
	}
	if prop == nil {
		return fmt.Errorf("%w: prop %s", entities.ErrNotFound, propID)
	}
	if prop.IsResolved() {
		return fmt.Errorf("%w: prop %q already resolved", entities.ErrInvalidInput, prop.Description)
	}

	if err := s.propRepo.DeclareResult(ctx, prop.ID, result); err != nil {
		return fmt.Errorf("failed to declare prop result: %w", err)
	}

	log.WithFields(log.Fields{
		"propID":      prop.ID,
		"description": prop.Description,
		"result":      result,
	}).Info("Prop result declared")
	return nil
}

// SetSlateStatus opens or locks a week. Settled is reached only through
// settlement once every wager of the week is resolved.
func (s *marketAdminService) SetSlateStatus(ctx context.Context, season, week int, status entities.SlateStatus) error {
	if status == entities.SlateStatusSettled {
		return fmt.Errorf("%w: slates are settled by the settlement pass", entities.ErrInvalidInput)
	}
	if status != entities.SlateStatusOpen && status != entities.SlateStatusLocked {
		return fmt.Errorf("%w: unknown slate status %q", entities.ErrInvalidInput, status)
	}

	slate, err := s.slateRepo.GetBySeasonWeek(ctx, season, week)
	if err != nil {
		return fmt.Errorf("failed to get slate: %w", err)
	}
	if slate == nil {
		return fmt.Errorf("%w: slate for season %d week %d", entities.ErrNotFound, season, week)
	}
	if slate.Status == entities.SlateStatusSettled {
		return fmt.Errorf("%w: season %d week %d is already settled", entities.ErrInvalidInput, season, week)
	}
	if slate.Status == status {
		return nil
	}

	if err := s.slateRepo.UpdateStatus(ctx, slate.ID, status); err != nil {
		return fmt.Errorf("failed to update slate status: %w", err)
	}

	log.WithFields(log.Fields{
		"season": season,
		"week":   week,
		"from":   slate.Status,
		"to":     status,
	}).Info("Slate status changed")
	return nil
}

func (s *marketAdminService) getGame(ctx context.Context, gameID uuid.UUID) (*entities.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %s", entities.ErrNotFound, gameID)
	}
	return game, nil
}
