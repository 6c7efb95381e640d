package services

import (
	"context"
	"fmt"
	"time"

	"apostas/domain/entities"
	"apostas/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Discord-facing names shared by the betting flows.
const (
	MatchCategoryName = "APOSTAS EM ANDAMENTO"
	MediatorRoleName  = "Mediador"
	CreatorRoleName   = "Criador de Apostas"
)

// MaxActiveBetsPerCreator caps how many open bets a creator may run at once.
// Hitting the cap suspends the creator role until settlements bring the
// count back down.
const MaxActiveBetsPerCreator = 2

type betService struct {
	playerRepo interfaces.PlayerRepository
	betRepo    interfaces.BetRepository
	gateway    interfaces.MessagingGateway
	faults     interfaces.FaultService
}

// NewBetService creates a new bet service
func NewBetService(playerRepo interfaces.PlayerRepository, betRepo interfaces.BetRepository, gateway interfaces.MessagingGateway, faults interfaces.FaultService) interfaces.BetService {
	return &betService{
		playerRepo: playerRepo,
		betRepo:    betRepo,
		gateway:    gateway,
		faults:     faults,
	}
}

// CreateBet opens a new bet with the creator holding slot 1.
func (s *betService) CreateBet(ctx context.Context, guildID, creatorID int64, creatorName, mode string, stake int64, roomMode string) (*entities.Bet, error) {
	return s.createBet(ctx, guildID, creatorID, creatorName, mode, stake, roomMode, false)
}

// CreateOpenBet opens a bet with both slots free. The creator runs the bet
// without playing in it; both participants arrive through accept.
func (s *betService) CreateOpenBet(ctx context.Context, guildID, creatorID int64, creatorName, mode string, stake int64, roomMode string) (*entities.Bet, error) {
	return s.createBet(ctx, guildID, creatorID, creatorName, mode, stake, roomMode, true)
}

func (s *betService) createBet(ctx context.Context, guildID, creatorID int64, creatorName, mode string, stake int64, roomMode string, openCall bool) (*entities.Bet, error) {
	if stake < MinStake {
		return nil, entities.NewValidationError("o valor mínimo da aposta é %d gold", MinStake)
	}
	if _, err := entities.RequiredPlayersForMode(mode); err != nil {
		return nil, err
	}
	if roomMode == "" {
		roomMode = "infinito"
	}

	if err := s.faults.EnsureEligible(ctx, creatorID, creatorName); err != nil {
		return nil, err
	}

	active, err := s.betRepo.CountActiveByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count creator bets: %w", err)
	}
	if active >= MaxActiveBetsPerCreator {
		return nil, entities.NewGuardError("você já tem %d apostas abertas. Finalize-as antes de criar outra.", active)
	}

	if _, err := s.playerRepo.GetOrCreate(ctx, creatorID, creatorName); err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	bet := &entities.Bet{
		ID:        uuid.New(),
		GuildID:   guildID,
		CreatorID: creatorID,
		Mode:      mode,
		Stake:     stake,
		RoomMode:  roomMode,
		State:     entities.BetStateAwaiting,
	}
	if !openCall {
		bet.Player1ID = &creatorID
	}
	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	// Reaching the cap suspends the creator role until the count drops.
	if active+1 >= MaxActiveBetsPerCreator {
		if err := s.gateway.RevokeRole(ctx, guildID, creatorID, CreatorRoleName); err != nil {
			log.WithError(err).WithField("creatorID", creatorID).Warn("Failed to suspend creator role")
		}
	}

	return bet, nil
}

func (s *betService) GetBet(ctx context.Context, id uuid.UUID) (*entities.Bet, error) {
	return s.betRepo.GetByID(ctx, id)
}

// Accept claims the open slot for the player. The claim is a conditional
// write, so two simultaneous accepts resolve to exactly one winner per slot.
// Filling the last slot provisions the match channel and moves the bet to
// aceita; if that final write fails the channel is torn down again.
func (s *betService) Accept(ctx context.Context, betID uuid.UUID, discordID int64, name string) (*entities.AcceptResult, error) {
	if err := s.faults.EnsureEligible(ctx, discordID, name); err != nil {
		return nil, err
	}

	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}
	if bet.State != entities.BetStateAwaiting {
		return nil, entities.NewGuardError("esta aposta não está mais aberta")
	}
	if bet.IsTeamMatch() {
		return nil, entities.NewGuardError("esta é uma partida de fila, entre pela fila")
	}
	if bet.IsParticipant(discordID) {
		return nil, entities.NewGuardError("você já está nesta aposta")
	}

	slot := bet.OpenSlot()
	if slot == 0 {
		return nil, entities.NewGuardError("esta aposta já está completa")
	}

	if _, err := s.playerRepo.GetOrCreate(ctx, discordID, name); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.betRepo.ClaimSlot(ctx, betID, slot, discordID); err != nil {
		if err != entities.ErrConflict {
			return nil, fmt.Errorf("failed to claim slot: %w", err)
		}
		// Someone took this slot first; retry once on the other one.
		bet, err = s.betRepo.GetByID(ctx, betID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload bet: %w", err)
		}
		if bet == nil || bet.State != entities.BetStateAwaiting {
			return nil, entities.NewGuardError("esta aposta não está mais aberta")
		}
		slot = bet.OpenSlot()
		if slot == 0 {
			return nil, entities.NewGuardError("esta aposta já está completa")
		}
		if err := s.betRepo.ClaimSlot(ctx, betID, slot, discordID); err != nil {
			if err == entities.ErrConflict {
				return nil, entities.NewGuardError("esta aposta já está completa")
			}
			return nil, fmt.Errorf("failed to claim slot: %w", err)
		}
	}

	bet, err = s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload bet: %w", err)
	}

	result := &entities.AcceptResult{Bet: bet, Slot: slot}
	if !bet.SlotsFilled() {
		return result, nil
	}

	channelID, err := s.provisionMatchChannel(ctx, bet, false)
	if err != nil {
		return nil, &entities.DependencyError{Op: "create match channel", Err: err}
	}

	if err := s.betRepo.MarkAccepted(ctx, betID, channelID); err != nil {
		if derr := s.gateway.DeleteChannel(ctx, channelID); derr != nil {
			log.WithError(derr).WithField("channelID", channelID).Error("Failed to roll back match channel")
		}
		if err == entities.ErrConflict {
			// A concurrent accept filled the other slot and completed the
			// transition first. Our slot claim stands; their channel stands.
			bet, err = s.betRepo.GetByID(ctx, betID)
			if err != nil {
				return nil, fmt.Errorf("failed to reload bet: %w", err)
			}
			result.Bet = bet
			return result, nil
		}
		return nil, &entities.DependencyError{Op: "mark bet accepted", Err: err}
	}

	if err := s.gateway.SendMessage(ctx, channelID, paymentInstructions(bet)); err != nil {
		log.WithError(err).WithField("channelID", channelID).Warn("Failed to post payment instructions")
	}

	bet, err = s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload bet: %w", err)
	}
	result.Bet = bet
	result.BothAccepted = true
	result.ChannelID = channelID
	return result, nil
}

// provisionMatchChannel creates the private match channel. Participants can
// read from the start; write access is granted on payment confirmation for
// slot matches and immediately for team matches.
func (s *betService) provisionMatchChannel(ctx context.Context, bet *entities.Bet, teamMatch bool) (int64, error) {
	mediatorRoleID, err := s.gateway.EnsureRole(ctx, bet.GuildID, MediatorRoleName)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure mediator role: %w", err)
	}

	access := interfaces.AccessView
	if teamMatch {
		access = interfaces.AccessWrite
	}

	overwrites := []interfaces.Overwrite{
		// @everyone shares the guild id
		{TargetID: bet.GuildID, Role: true, Access: interfaces.AccessNone},
		{TargetID: mediatorRoleID, Role: true, Access: interfaces.AccessWrite},
	}
	for _, id := range bet.Participants() {
		overwrites = append(overwrites, interfaces.Overwrite{TargetID: id, Access: access})
	}

	return s.gateway.CreateChannel(ctx, bet.GuildID, interfaces.ChannelSpec{
		Name:       fmt.Sprintf("aposta-%s", bet.ID.String()[:8]),
		Category:   MatchCategoryName,
		Overwrites: overwrites,
	})
}

func paymentInstructions(bet *entities.Bet) string {
	return fmt.Sprintf(
		"💰 **Aposta de %d gold (%s)**\n<@%d> vs <@%d>\n\nEnviem o pagamento ao mediador. Um mediador confirmará aqui quando os dois pagamentos chegarem.",
		bet.Stake, bet.Mode, *bet.Player1ID, *bet.Player2ID,
	)
}

// Cancel voids the whole bet when called by the creator, or vacates the
// caller's slot when called by a participant. Self-service cancellation only
// exists while the bet is still recruiting; from aceita on it is a mediator
// action.
func (s *betService) Cancel(ctx context.Context, betID uuid.UUID, discordID int64) (*entities.CancelResult, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}

	if discordID == bet.CreatorID {
		if bet.State != entities.BetStateAwaiting {
			return nil, entities.NewGuardError("a aposta já foi aceita e não pode mais ser cancelada por você. Chame um mediador.")
		}
		from := []entities.BetState{entities.BetStateAwaiting}
		if err := s.betRepo.MarkCancelled(ctx, betID, from); err != nil {
			if err == entities.ErrConflict {
				return nil, entities.NewGuardError("a aposta já avançou e não pode mais ser cancelada por você. Chame um mediador.")
			}
			return nil, fmt.Errorf("failed to cancel bet: %w", err)
		}
		s.teardownChannel(ctx, bet)
		s.restoreCreatorRole(ctx, bet.GuildID, bet.CreatorID)
		bet.State = entities.BetStateCancelled
		return &entities.CancelResult{Bet: bet, FullyVoided: true}, nil
	}

	slot := bet.SlotOf(discordID)
	if slot == 0 {
		return nil, entities.NewGuardError("você não está nesta aposta")
	}
	if bet.State != entities.BetStateAwaiting {
		return nil, entities.NewGuardError("a aposta já foi aceita, chame um mediador para cancelar")
	}
	if err := s.betRepo.VacateSlot(ctx, betID, slot, discordID); err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("a aposta já avançou, chame um mediador para cancelar")
		}
		return nil, fmt.Errorf("failed to vacate slot: %w", err)
	}

	bet, err = s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload bet: %w", err)
	}
	return &entities.CancelResult{Bet: bet, VacatedSlot: slot}, nil
}

// ConfirmPayment moves the bet to paga and unlocks the match channel for the
// participants.
func (s *betService) ConfirmPayment(ctx context.Context, betID uuid.UUID) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}
	if bet.State != entities.BetStateAccepted {
		return nil, entities.NewGuardError("a aposta não está aguardando pagamento (estado: %s)", bet.State)
	}

	if err := s.betRepo.MarkPaid(ctx, betID); err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("o pagamento já foi confirmado")
		}
		return nil, fmt.Errorf("failed to mark paid: %w", err)
	}

	if bet.ChannelID != nil {
		for _, id := range bet.Participants() {
			if err := s.gateway.SetChannelAccess(ctx, *bet.ChannelID, id, interfaces.AccessWrite); err != nil {
				log.WithError(err).WithField("discordID", id).Warn("Failed to unlock match channel")
			}
		}
		if err := s.gateway.SendMessage(ctx, *bet.ChannelID, "✅ Pagamentos confirmados! O canal foi liberado. Boa sorte!"); err != nil {
			log.WithError(err).Warn("Failed to post payment confirmation")
		}
	}

	return s.betRepo.GetByID(ctx, betID)
}

// StartMatch moves the bet to em_jogo.
func (s *betService) StartMatch(ctx context.Context, betID uuid.UUID) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}
	if bet.State != entities.BetStatePaid {
		return nil, entities.NewGuardError("a aposta precisa estar paga para iniciar (estado: %s)", bet.State)
	}

	if err := s.betRepo.MarkStarted(ctx, betID); err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("a partida já foi iniciada")
		}
		return nil, fmt.Errorf("failed to mark started: %w", err)
	}

	if bet.ChannelID != nil {
		if err := s.gateway.SendMessage(ctx, *bet.ChannelID, "🎮 Partida iniciada!"); err != nil {
			log.WithError(err).Warn("Failed to post match start")
		}
	}

	return s.betRepo.GetByID(ctx, betID)
}

// Finalize settles a slot match for the given winner. A repeated
// finalization of an already settled bet is reported, not rejected.
func (s *betService) Finalize(ctx context.Context, betID uuid.UUID, winnerID int64, finalization entities.FinalizationType) (*entities.SettlementResult, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}
	if bet.State == entities.BetStateFinalized {
		return &entities.SettlementResult{Bet: bet, AlreadyFinal: true}, nil
	}
	if bet.State != entities.BetStateInGame {
		return nil, entities.NewGuardError("a partida precisa estar em jogo para finalizar (estado: %s)", bet.State)
	}
	if bet.IsTeamMatch() {
		return nil, entities.NewGuardError("esta é uma partida em equipe, finalize escolhendo o time vencedor")
	}
	if bet.SlotOf(winnerID) == 0 {
		return nil, entities.NewValidationError("o vencedor precisa ser um dos participantes")
	}

	loser := bet.Opponent(winnerID)
	fee, payout := SettlementFor(finalization, bet.Stake)

	now := time.Now()
	bet.State = entities.BetStateFinalized
	bet.WinnerID = &winnerID
	bet.Fee = fee
	bet.Payout = payout
	bet.Finalization = &finalization
	bet.FinalizedAt = &now

	if err := s.betRepo.Finalize(ctx, bet); err != nil {
		if err == entities.ErrConflict {
			// A concurrent finalization got there first.
			bet, err = s.betRepo.GetByID(ctx, betID)
			if err != nil {
				return nil, fmt.Errorf("failed to reload bet: %w", err)
			}
			return &entities.SettlementResult{Bet: bet, AlreadyFinal: true}, nil
		}
		return nil, fmt.Errorf("failed to finalize bet: %w", err)
	}

	log.WithFields(log.Fields{
		"betID":    betID,
		"winnerID": winnerID,
		"type":     finalization,
		"payout":   payout,
		"fee":      fee,
	}).Info("Bet finalized")

	return &entities.SettlementResult{
		Bet:     bet,
		Winners: []int64{winnerID},
		Losers:  []int64{loser},
		Fee:     fee,
		Payout:  payout,
	}, nil
}

// FinalizeTeam settles a team match. Every member on each side is credited
// with the same per-player settlement, computed with the normal schedule.
func (s *betService) FinalizeTeam(ctx context.Context, betID uuid.UUID, winner entities.Team, finalization entities.FinalizationType) (*entities.SettlementResult, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}
	if bet.State == entities.BetStateFinalized {
		return &entities.SettlementResult{Bet: bet, AlreadyFinal: true}, nil
	}
	if bet.State != entities.BetStateInGame {
		return nil, entities.NewGuardError("a partida precisa estar em jogo para finalizar (estado: %s)", bet.State)
	}
	if !bet.IsTeamMatch() {
		return nil, entities.NewGuardError("esta não é uma partida em equipe")
	}

	winners := bet.Teams.Members(winner)
	losers := bet.Teams.Opponents(winner)
	fee, payout := NormalSettlement(bet.Stake)

	now := time.Now()
	bet.State = entities.BetStateFinalized
	bet.WinningTeam = &winner
	bet.Fee = fee
	bet.Payout = payout
	bet.Finalization = &finalization
	bet.FinalizedAt = &now

	if err := s.betRepo.Finalize(ctx, bet); err != nil {
		if err == entities.ErrConflict {
			bet, err = s.betRepo.GetByID(ctx, betID)
			if err != nil {
				return nil, fmt.Errorf("failed to reload bet: %w", err)
			}
			return &entities.SettlementResult{Bet: bet, AlreadyFinal: true}, nil
		}
		return nil, fmt.Errorf("failed to finalize bet: %w", err)
	}

	log.WithFields(log.Fields{
		"betID":   betID,
		"winning": winner,
		"type":    finalization,
	}).Info("Team bet finalized")

	return &entities.SettlementResult{
		Bet:     bet,
		Winners: winners,
		Losers:  losers,
		Fee:     fee,
		Payout:  payout,
	}, nil
}

// CancelMatch voids an accepted or running bet and tears down its channel.
// Mediator action.
func (s *betService) CancelMatch(ctx context.Context, betID uuid.UUID) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}

	from := []entities.BetState{
		entities.BetStateAwaiting,
		entities.BetStateAccepted,
		entities.BetStatePaid,
		entities.BetStateInGame,
	}
	if err := s.betRepo.MarkCancelled(ctx, betID, from); err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("a aposta já foi encerrada")
		}
		return nil, fmt.Errorf("failed to cancel bet: %w", err)
	}

	s.teardownChannel(ctx, bet)
	s.restoreCreatorRole(ctx, bet.GuildID, bet.CreatorID)
	return s.betRepo.GetByID(ctx, betID)
}

// AssignTeam places a pool member on a side during team selection. When the
// pick completes the split, the match moves to em_jogo with the first member
// of each side as captain.
func (s *betService) AssignTeam(ctx context.Context, betID uuid.UUID, discordID int64, team entities.Team) (*entities.TeamSelectionResult, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, entities.NewGuardError("aposta não encontrada")
	}
	if !bet.IsTeamMatch() {
		return nil, entities.NewGuardError("esta não é uma partida em equipe")
	}
	if bet.State != entities.BetStateAwaiting {
		return nil, entities.NewGuardError("a escolha de times já foi encerrada")
	}

	if err := bet.Teams.Assign(discordID, team); err != nil {
		return nil, err
	}

	if !bet.Teams.Complete() {
		if err := s.betRepo.UpdateTeams(ctx, betID, bet.Teams); err != nil {
			if err == entities.ErrConflict {
				return nil, entities.NewGuardError("a escolha de times já foi encerrada")
			}
			return nil, fmt.Errorf("failed to update teams: %w", err)
		}
		return &entities.TeamSelectionResult{Bet: bet}, nil
	}

	captainA := bet.Teams.TeamA[0]
	captainB := bet.Teams.TeamB[0]
	if err := s.betRepo.MarkTeamsComplete(ctx, betID, bet.Teams, captainA, captainB); err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("a escolha de times já foi encerrada")
		}
		return nil, fmt.Errorf("failed to complete teams: %w", err)
	}

	if bet.ChannelID != nil {
		msg := fmt.Sprintf("⚔️ Times definidos! Capitães: <@%d> (Time A) vs <@%d> (Time B). A partida está em jogo.", captainA, captainB)
		if err := s.gateway.SendMessage(ctx, *bet.ChannelID, msg); err != nil {
			log.WithError(err).Warn("Failed to post team completion")
		}
	}

	bet, err = s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload bet: %w", err)
	}
	return &entities.TeamSelectionResult{Bet: bet, Complete: true}, nil
}

// CloseChannel deletes the bet's match channel if one exists.
func (s *betService) CloseChannel(ctx context.Context, betID uuid.UUID) error {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return entities.NewGuardError("aposta não encontrada")
	}
	s.teardownChannel(ctx, bet)
	return nil
}

// restoreCreatorRole gives the creator role back once the creator's open bet
// count dropped below the cap.
func (s *betService) restoreCreatorRole(ctx context.Context, guildID, creatorID int64) {
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

func (s *betService) teardownChannel(ctx context.Context, bet *entities.Bet) {
	if bet.ChannelID == nil {
		return
	}
	if err := s.gateway.DeleteChannel(ctx, *bet.ChannelID); err != nil {
		log.WithError(err).WithField("channelID", *bet.ChannelID).Warn("Failed to delete match channel")
	}
}
