package queues

import (
	"fmt"
	"strings"

	"apostas/bot/common"
	"apostas/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// BuildQueueEmbed renders the live roster message.
func BuildQueueEmbed(queue *entities.Queue) *discordgo.MessageEmbed {
	var roster string
	if len(queue.Players) == 0 {
		roster = "*vazia*"
	} else {
		var b strings.Builder
		for n, id := range queue.Players {
			fmt.Fprintf(&b, "%d. <@%d>\n", n+1, id)
		}
		roster = b.String()
	}

	title := fmt.Sprintf("🎯 Fila %s — %d gold", queue.GameMode, queue.Stake)
	if queue.MobileOnly {
		title += " 📱"
	}

	required := queue.RequiredPlayers
	if required == 0 {
		if n, err := entities.RequiredPlayersForMode(queue.GameMode); err == nil {
			required = n
		}
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Jogadores (%d/%d)", len(queue.Players), required),
				Value: roster,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Quando a fila encher, a partida é criada e a fila reabre vazia",
		},
	}
}

// BuildQueueButtons renders the join/leave row.
func BuildQueueButtons(queueID int64) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Entrar",
				Style:    discordgo.SuccessButton,
				CustomID: fmt.Sprintf("queue_join_%d", queueID),
			},
			discordgo.Button{
				Label:    "Sair",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("queue_leave_%d", queueID),
			},
		},
	}
}

// BuildTeamButtons renders the team selection row posted in match channels.
func BuildTeamButtons(betID uuid.UUID) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Time A",
				Style:    discordgo.PrimaryButton,
				CustomID: fmt.Sprintf("team_a_%s", betID),
			},
			discordgo.Button{
				Label:    "Time B",
				Style:    discordgo.DangerButton,
				CustomID: fmt.Sprintf("team_b_%s", betID),
			},
		},
	}
}
