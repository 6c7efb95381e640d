package matchcontrol

import (
	"fmt"
	"strings"

	"apostas/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// BuildSettlementMessage renders the outcome announcement for the match
// channel.
func BuildSettlementMessage(result *entities.SettlementResult) string {
	var b strings.Builder
	b.WriteString("🏁 **Partida finalizada!**\n\n")

	b.WriteString("🏆 Vencedores: ")
	for _, id := range result.Winners {
		fmt.Fprintf(&b, "<@%d> ", id)
	}
	fmt.Fprintf(&b, "(+%.2f gold cada)\n", result.Payout)

	b.WriteString("💀 Perdedores: ")
	for _, id := range result.Losers {
		fmt.Fprintf(&b, "<@%d> ", id)
	}
	fmt.Fprintf(&b, "\n\n🏦 Taxa da casa: %.2f gold", result.Fee)

	if result.Bet.Finalization != nil && *result.Bet.Finalization == entities.FinalizationWalkover {
		b.WriteString("\n⚠️ Finalizada por W.O. ou irregularidade")
	}
	return b.String()
}

// BuildCloseButton renders the close-channel button posted with the
// settlement announcement.
func BuildCloseButton(betID uuid.UUID) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Fechar canal",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("match_close_%s", betID),
			},
		},
	}
}
