package services

import (
	"apostas/domain/entities"
)

// MinStake is the lowest accepted stake, in gold.
const MinStake = 25

// Fee schedule for normally played matches. The fee is taken from the pot
// (both stakes combined); larger pots pay the reduced rate.
const (
	feeRateLow       = 0.10
	feeRateHigh      = 0.05
	highFeeThreshold = 300
)

// Walkover split: the winner recovers their stake plus a share of the
// loser's, the rest of the loser's stake is the house fee.
const (
	walkoverWinnerShare = 0.70
	walkoverFeeShare    = 0.30
)

// NormalSettlement computes fee and winner payout for a played-out match.
func NormalSettlement(stake int64) (fee, payout float64) {
	total := float64(2 * stake)
	rate := feeRateLow
	if total >= highFeeThreshold {
		rate = feeRateHigh
	}
	fee = total * rate
	return fee, total - fee
}

// WalkoverSettlement computes fee and winner payout for a walkover or
// irregularity. The loser's stake is split between winner and house.
func WalkoverSettlement(stake int64) (fee, payout float64) {
	fee = float64(stake) * walkoverFeeShare
	payout = float64(stake) + float64(stake)*walkoverWinnerShare
	return fee, payout
}

// SettlementFor dispatches on the finalization type.
func SettlementFor(ft entities.FinalizationType, stake int64) (fee, payout float64) {
	if ft == entities.FinalizationWalkover {
		return WalkoverSettlement(stake)
	}
	return NormalSettlement(stake)
}
