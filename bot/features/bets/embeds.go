package bets

import (
	"fmt"

	"apostas/bot/common"
	"apostas/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func stateLabel(state entities.BetState) string {
	switch state {
	case entities.BetStateAwaiting:
		return "🟡 Aguardando oponente"
	case entities.BetStateAccepted:
		return "🔵 Aguardando pagamento"
	case entities.BetStatePaid:
		return "🟢 Paga"
	case entities.BetStateInGame:
		return "🎮 Em jogo"
	case entities.BetStateFinalized:
		return "🏁 Finalizada"
	case entities.BetStateCancelled:
		return "⚫ Cancelada"
	default:
		return string(state)
	}
}

func stateColor(state entities.BetState) int {
	switch state {
	case entities.BetStateAwaiting:
		return common.ColorWarning
	case entities.BetStateFinalized:
		return common.ColorSuccess
	case entities.BetStateCancelled:
		return common.ColorDanger
	default:
		return common.ColorPrimary
	}
}

func slotValue(id *int64) string {
	if id == nil {
		return "*vago*"
	}
	return fmt.Sprintf("<@%d>", *id)
}

// BuildBetEmbed renders the public bet message.
func BuildBetEmbed(bet *entities.Bet) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⚔️ Aposta %s — %d gold", bet.Mode, bet.Stake),
		Color: stateColor(bet.State),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: stateLabel(bet.State), Inline: true},
			{Name: "Sala", Value: bet.RoomMode, Inline: true},
			{Name: "Jogador 1", Value: slotValue(bet.Player1ID), Inline: true},
			{Name: "Jogador 2", Value: slotValue(bet.Player2ID), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ID: %s", bet.ID),
		},
	}

	if bet.State == entities.BetStateFinalized && bet.WinnerID != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Vencedor",
			Value:  fmt.Sprintf("<@%d> (+%.2f gold)", *bet.WinnerID, bet.Payout),
			Inline: false,
		})
	}
	return embed
}

// BuildBetComponents renders the accept/cancel buttons; the row disappears
// once the bet leaves the awaiting state.
func BuildBetComponents(bet *entities.Bet) []discordgo.MessageComponent {
	if bet.State != entities.BetStateAwaiting {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Aceitar",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("bet_accept_%s", bet.ID),
				},
				discordgo.Button{
					Label:    "Cancelar",
					Style:    discordgo.DangerButton,
					CustomID: fmt.Sprintf("bet_cancel_%s", bet.ID),
				},
			},
		},
	}
}
