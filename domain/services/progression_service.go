package services

import (
	"context"
	"fmt"
	"time"

	"apostas/domain/entities"
	"apostas/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type progressionService struct {
	playerRepo interfaces.PlayerRepository
	betRepo    interfaces.BetRepository
	levelRepo  interfaces.PlayerLevelRepository
	seasonRepo interfaces.SeasonRankingRepository
	gateway    interfaces.MessagingGateway
}

// NewProgressionService creates a new progression service
func NewProgressionService(playerRepo interfaces.PlayerRepository, betRepo interfaces.BetRepository, levelRepo interfaces.PlayerLevelRepository, seasonRepo interfaces.SeasonRankingRepository, gateway interfaces.MessagingGateway) interfaces.ProgressionService {
	return &progressionService{
		playerRepo: playerRepo,
		betRepo:    betRepo,
		levelRepo:  levelRepo,
		seasonRepo: seasonRepo,
		gateway:    gateway,
	}
}

// RecordSettlement folds one settled bet into every per-player aggregate and
// applies the Discord side effects. Each participant is credited with their
// own stake; winners additionally receive the payout.
func (s *progressionService) RecordSettlement(ctx context.Context, guildID int64, result *entities.SettlementResult) error {
	if result.AlreadyFinal {
		return nil
	}

	bet := result.Bet
	now := time.Now()

	for _, id := range result.Winners {
		if err := s.recordParticipant(ctx, guildID, id, true, bet.Stake, result.Payout, now); err != nil {
			return err
		}
	}
	for _, id := range result.Losers {
		if err := s.recordParticipant(ctx, guildID, id, false, bet.Stake, 0, now); err != nil {
			return err
		}
	}

	s.restoreCreatorRole(ctx, guildID, bet.CreatorID)
	return nil
}

func (s *progressionService) recordParticipant(ctx context.Context, guildID, discordID int64, won bool, stake int64, payout float64, now time.Time) error {
	player, err := s.playerRepo.GetOrCreate(ctx, discordID, "")
	if err != nil {
		return fmt.Errorf("failed to get player %d: %w", discordID, err)
	}
	player.RecordResult(won, stake, payout)
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return fmt.Errorf("failed to update player %d: %w", discordID, err)
	}

	profit := -float64(stake)
	if won {
		profit = payout - float64(stake)
	}

	if err := s.applyLevel(ctx, guildID, discordID, won, profit, now); err != nil {
		return err
	}
	if err := s.applySeasons(ctx, discordID, won, stake, profit, now); err != nil {
		return err
	}

	s.notifyOutcome(ctx, discordID, won, stake, payout)
	return nil
}

// applyLevel folds the result into the tier aggregate. A tier change swaps
// the level roles, and reaching ouro provisions the bonus voice channel once;
// the persisted channel id keeps repeated promotions from provisioning twice.
func (s *progressionService) applyLevel(ctx context.Context, guildID, discordID int64, won bool, profit float64, now time.Time) error {
	level, err := s.levelRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get player level %d: %w", discordID, err)
	}
	if level == nil {
		level = &entities.PlayerLevel{DiscordID: discordID, Level: entities.LevelBronze}
	}

	changed := level.Apply(won, profit)
	level.UpdatedAt = now

	if changed {
		s.swapLevelRoles(ctx, guildID, discordID, level.Level)
		msg := fmt.Sprintf("🎉 Parabéns! Você subiu para o nível **%s** com %d apostas concluídas.", level.Level.RoleName(), level.TotalBets)
		if err := s.gateway.SendDM(ctx, discordID, msg); err != nil {
			log.WithError(err).WithField("discordID", discordID).Warn("Failed to DM level up")
		}
	}

	if levelAtLeastOuro(level.Level) && level.GoldChannelID == nil {
		channelID, err := s.gateway.CreateChannel(ctx, guildID, interfaces.ChannelSpec{
			Name:     fmt.Sprintf("🥇・sala-%d", discordID),
			Category: MatchCategoryName,
			Voice:    true,
			Overwrites: []interfaces.Overwrite{
				{TargetID: guildID, Role: true, Access: interfaces.AccessNone},
				{TargetID: discordID, Access: interfaces.AccessWrite},
			},
		})
		if err != nil {
			log.WithError(err).WithField("discordID", discordID).Warn("Failed to provision gold channel")
		} else {
			level.GoldChannelID = &channelID
		}
	}

	if err := s.levelRepo.Upsert(ctx, level); err != nil {
		return fmt.Errorf("failed to upsert player level %d: %w", discordID, err)
	}
	return nil
}

func levelAtLeastOuro(l entities.Level) bool {
	return l == entities.LevelOuro || l == entities.LevelDiamante
}

func (s *progressionService) swapLevelRoles(ctx context.Context, guildID, discordID int64, newLevel entities.Level) {
	for _, l := range entities.AllLevels {
		if l == newLevel {
			continue
		}
		if err := s.gateway.RevokeRole(ctx, guildID, discordID, l.RoleName()); err != nil {
			log.WithError(err).WithField("discordID", discordID).Debug("Failed to revoke level role")
		}
	}
	if err := s.gateway.GrantRole(ctx, guildID, discordID, newLevel.RoleName()); err != nil {
		log.WithError(err).WithField("discordID", discordID).Warn("Failed to grant level role")
	}
}

func (s *progressionService) applySeasons(ctx context.Context, discordID int64, won bool, stake int64, profit float64, now time.Time) error {
	for _, st := range []entities.SeasonType{entities.SeasonWeekly, entities.SeasonMonthly} {
		seasonID := entities.SeasonIDFor(st, now)
		ranking, err := s.seasonRepo.Get(ctx, discordID, st, seasonID)
		if err != nil {
			return fmt.Errorf("failed to get %s ranking for %d: %w", st, discordID, err)
		}
		if ranking == nil {
			ranking = &entities.SeasonRanking{DiscordID: discordID, SeasonType: st, SeasonID: seasonID}
		}
		ranking.Apply(won, stake, profit)
		if err := s.seasonRepo.Upsert(ctx, ranking); err != nil {
			return fmt.Errorf("failed to upsert %s ranking for %d: %w", st, discordID, err)
		}
	}
	return nil
}

func (s *progressionService) notifyOutcome(ctx context.Context, discordID int64, won bool, stake int64, payout float64) {
	var msg string
	if won {
		msg = fmt.Sprintf("🏆 Você venceu a aposta e recebeu **%.2f gold**!", payout)
	} else {
		msg = fmt.Sprintf("💀 Você perdeu a aposta de **%d gold**. Mais sorte na próxima!", stake)
	}
	if err := s.gateway.SendDM(ctx, discordID, msg); err != nil {
		log.WithError(err).WithField("discordID", discordID).Debug("Failed to DM settlement outcome")
	}
}

// restoreCreatorRole gives the creator role back once the creator's open bet
// count dropped below the cap.
func (s *progressionService) restoreCreatorRole(ctx context.Context, guildID, creatorID int64) {
	active, err := s.betRepo.CountActiveByCreator(ctx, creatorID)
	if err != nil {
		log.WithError(err).WithField("creatorID", creatorID).Warn("Failed to count creator bets")
		return
	}
	if active < MaxActiveBetsPerCreator {
		if err := s.gateway.GrantRole(ctx, guildID, creatorID, CreatorRoleName); err != nil {
			log.WithError(err).WithField("creatorID", creatorID).Debug("Failed to restore creator role")
		}
	}
}

// GetProfile assembles the profile view for a player.
func (s *progressionService) GetProfile(ctx context.Context, discordID int64) (*entities.PlayerProfile, error) {
	player, err := s.playerRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, entities.NewGuardError("você ainda não participou de nenhuma aposta")
	}

	level, err := s.levelRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player level: %w", err)
	}
	if level == nil {
		level = &entities.PlayerLevel{DiscordID: discordID, Level: entities.LevelBronze}
	}

	now := time.Now()
	weekly, err := s.seasonRepo.Get(ctx, discordID, entities.SeasonWeekly, entities.WeeklySeasonID(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly ranking: %w", err)
	}
	monthly, err := s.seasonRepo.Get(ctx, discordID, entities.SeasonMonthly, entities.MonthlySeasonID(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly ranking: %w", err)
	}

	return &entities.PlayerProfile{
		Player:   player,
		Level:    level,
		Progress: entities.ProgressForTotalBets(level.TotalBets),
		Badges:   level.Badges(),
		Weekly:   weekly,
		Monthly:  monthly,
	}, nil
}

// SeasonTop returns the leaderboard of the current season of the given type.
func (s *progressionService) SeasonTop(ctx context.Context, seasonType entities.SeasonType, limit int) ([]*entities.SeasonRanking, error) {
	seasonID := entities.SeasonIDFor(seasonType, time.Now())
	rankings, err := s.seasonRepo.Top(ctx, seasonType, seasonID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get season top: %w", err)
	}
	return rankings, nil
}

// OverallTop returns the all-time leaderboard.
func (s *progressionService) OverallTop(ctx context.Context, limit int) ([]*entities.Player, error) {
	players, err := s.playerRepo.TopByWins(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get overall top: %w", err)
	}
	return players, nil
}
