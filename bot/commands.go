package bot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

var gameModeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "1x1", Value: "1x1"},
	{Name: "2x2", Value: "2x2"},
	{Name: "3x3", Value: "3x3"},
	{Name: "4x4", Value: "4x4"},
}

var finalizationChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Normal", Value: "normal"},
	{Name: "W.O. / Irregularidade", Value: "wo_irregularidade"},
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "apostar",
			Description: "Cria uma nova aposta",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "valor",
					Description: "Valor da aposta em gold (mínimo 25)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "modo",
					Description: "Modo de jogo",
					Required:    true,
					Choices:     gameModeChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "sala",
					Description: "Modo da sala",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Infinito", Value: "infinito"},
						{Name: "Mobile", Value: "mobile"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "aberta",
					Description: "Aposta aberta: você não joga, as duas vagas ficam livres (mediadores)",
				},
			},
		},
		{
			Name:        "fila",
			Description: "Gerencia filas de partidas",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "criar",
					Description: "Cria uma fila neste canal (mediadores)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "modo",
							Description: "Modo de jogo",
							Required:    true,
							Choices:     gameModeChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "valor",
							Description: "Valor da aposta por jogador",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "mobile",
							Description: "Restringe a jogadores mobile",
						},
					},
				},
			},
		},
		{
			Name:        "partida",
			Description: "Controle de partidas (mediadores)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pagamento",
					Description: "Confirma os pagamentos de uma aposta",
					Options:     []*discordgo.ApplicationCommandOption{betIDCommandOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "iniciar",
					Description: "Marca a partida como em jogo",
					Options:     []*discordgo.ApplicationCommandOption{betIDCommandOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "finalizar",
					Description: "Finaliza uma partida 1x1",
					Options: []*discordgo.ApplicationCommandOption{
						betIDCommandOption(),
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "vencedor",
							Description: "Jogador vencedor",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "tipo",
							Description: "Tipo de finalização",
							Choices:     finalizationChoices,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "finalizar-time",
					Description: "Finaliza uma partida em equipe",
					Options: []*discordgo.ApplicationCommandOption{
						betIDCommandOption(),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "time",
							Description: "Time vencedor",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Time A", Value: "A"},
								{Name: "Time B", Value: "B"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "tipo",
							Description: "Tipo de finalização",
							Choices:     finalizationChoices,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancelar",
					Description: "Cancela uma aposta em qualquer estado ativo",
					Options:     []*discordgo.ApplicationCommandOption{betIDCommandOption()},
				},
			},
		},
		{
			Name:        "perfil",
			Description: "Mostra o perfil de apostas de um jogador",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "usuario",
					Description: "Jogador (padrão: você)",
				},
			},
		},
		{
			Name:        "ranking",
			Description: "Mostra o ranking de apostas",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "tipo",
					Description: "Período do ranking",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Geral", Value: "geral"},
						{Name: "Semanal", Value: "semanal"},
						{Name: "Mensal", Value: "mensal"},
					},
				},
			},
		},
	}
}

func betIDCommandOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "aposta",
		Description: "ID da aposta",
		Required:    true,
	}
}

// registerCommands overwrites the guild's slash commands with the current
// definitions.
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Infof("Registered %d slash commands", len(commands))
	return nil
}
