package profile

import (
	"fmt"
	"strings"

	"apostas/bot/common"
	"apostas/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func levelEmoji(l entities.Level) string {
	switch l {
	case entities.LevelPrata:
		return "🥈"
	case entities.LevelOuro:
		return "🥇"
	case entities.LevelDiamante:
		return "💎"
	default:
		return "🥉"
	}
}

// BuildProfileEmbed renders the player profile.
func BuildProfileEmbed(discordID int64, view *entities.PlayerProfile) *discordgo.MessageEmbed {
	p := view.Player

	progress := "nível máximo"
	if view.Progress.Next != nil {
		progress = fmt.Sprintf("%d%% para %s", view.Progress.Percentage, view.Progress.Next.RoleName())
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Nível",
			Value:  fmt.Sprintf("%s %s (%s)", levelEmoji(view.Level.Level), view.Level.Level.RoleName(), progress),
			Inline: false,
		},
		{
			Name:   "Partidas",
			Value:  fmt.Sprintf("%d (✅ %d / ❌ %d)", p.MatchesPlayed, p.Wins, p.Losses),
			Inline: true,
		},
		{
			Name:   "Lucro",
			Value:  fmt.Sprintf("%.2f gold", p.Profit),
			Inline: true,
		},
		{
			Name:   "Total apostado",
			Value:  fmt.Sprintf("%d gold", p.TotalWagered),
			Inline: true,
		},
	}

	if view.Weekly != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Semana",
			Value:  fmt.Sprintf("%dV/%dD (%.1f%%)", view.Weekly.Wins, view.Weekly.Losses, view.Weekly.WinRate),
			Inline: true,
		})
	}
	if view.Monthly != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Mês",
			Value:  fmt.Sprintf("%dV/%dD (%.1f%%)", view.Monthly.Wins, view.Monthly.Losses, view.Monthly.WinRate),
			Inline: true,
		})
	}

	if len(view.Badges) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Conquistas",
			Value: strings.Join(view.Badges, "\n"),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Perfil de %s", displayName(p)),
		Color:  common.ColorGold,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Faltas: %d", p.Faults),
		},
	}
}

func displayName(p *entities.Player) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("jogador %d", p.DiscordID)
}

var medals = []string{"🥇", "🥈", "🥉"}

func medalFor(position int) string {
	if position < len(medals) {
		return medals[position]
	}
	return fmt.Sprintf("%d.", position+1)
}

// BuildSeasonRankingEmbed renders a weekly or monthly leaderboard.
func BuildSeasonRankingEmbed(title string, rankings []*entities.SeasonRanking) *discordgo.MessageEmbed {
	if len(rankings) == 0 {
		return &discordgo.MessageEmbed{
			Title:       title,
			Color:       common.ColorInfo,
			Description: "Nenhuma aposta finalizada nesta temporada ainda.",
		}
	}

	var b strings.Builder
	for n, r := range rankings {
		fmt.Fprintf(&b, "%s <@%d> — %dV/%dD, %.2f gold de lucro\n",
			medalFor(n), r.DiscordID, r.Wins, r.Losses, r.Profit)
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       common.ColorInfo,
		Description: b.String(),
	}
}

// BuildOverallRankingEmbed renders the all-time leaderboard.
func BuildOverallRankingEmbed(players []*entities.Player) *discordgo.MessageEmbed {
	if len(players) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "🏆 Ranking Geral",
			Color:       common.ColorGold,
			Description: "Nenhuma aposta finalizada ainda.",
		}
	}

	var b strings.Builder
	for n, p := range players {
		fmt.Fprintf(&b, "%s <@%d> — %d vitórias, %.2f gold de lucro\n",
			medalFor(n), p.DiscordID, p.Wins, p.Profit)
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Ranking Geral",
		Color:       common.ColorGold,
		Description: b.String(),
	}
}
