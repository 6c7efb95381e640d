package messaging

import (
	"context"
	"fmt"
	"strconv"

	"apostas/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// DiscordGateway implements interfaces.MessagingGateway on a discordgo
// session.
type DiscordGateway struct {
	session *discordgo.Session
}

// NewDiscordGateway creates a new Discord gateway
func NewDiscordGateway(session *discordgo.Session) *DiscordGateway {
	return &DiscordGateway{session: session}
}

// accessPermissions translates an access tier into allow/deny bitmasks.
func accessPermissions(access interfaces.ChannelAccess) (allow, deny int64) {
	switch access {
	case interfaces.AccessNone:
		return 0, discordgo.PermissionViewChannel
	case interfaces.AccessView:
		return discordgo.PermissionViewChannel,
			discordgo.PermissionSendMessages
	default:
		return discordgo.PermissionViewChannel |
			discordgo.PermissionSendMessages |
			discordgo.PermissionVoiceConnect |
			discordgo.PermissionVoiceSpeak, 0
	}
}

// CreateChannel provisions a channel under the named category, creating the
// category on first use.
func (g *DiscordGateway) CreateChannel(ctx context.Context, guildID int64, spec interfaces.ChannelSpec) (int64, error) {
	guild := formatID(guildID)

	parentID, err := g.ensureCategory(ctx, guild, spec.Category)
	if err != nil {
		return 0, err
	}

	channelType := discordgo.ChannelTypeGuildText
	if spec.Voice {
		channelType = discordgo.ChannelTypeGuildVoice
	}

	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(spec.Overwrites))
	for _, ow := range spec.Overwrites {
		targetType := discordgo.PermissionOverwriteTypeMember
		if ow.Role {
			targetType = discordgo.PermissionOverwriteTypeRole
		}
		allow, deny := accessPermissions(ow.Access)
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    formatID(ow.TargetID),
			Type:  targetType,
			Allow: allow,
			Deny:  deny,
		})
	}

	channel, err := g.session.GuildChannelCreateComplex(guild, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 channelType,
		ParentID:             parentID,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to create channel %s: %w", spec.Name, err)
	}

	return parseID(channel.ID)
}

func (g *DiscordGateway) ensureCategory(ctx context.Context, guildID, name string) (string, error) {
	if name == "" {
		return "", nil
	}

	channels, err := g.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == name {
			return ch.ID, nil
		}
	}

	category, err := g.session.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildCategory, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create category %s: %w", name, err)
	}
	log.WithField("category", name).Info("Created channel category")
	return category.ID, nil
}

// DeleteChannel removes a channel. An already-deleted channel is not an
// error.
func (g *DiscordGateway) DeleteChannel(ctx context.Context, channelID int64) error {
	_, err := g.session.ChannelDelete(formatID(channelID), discordgo.WithContext(ctx))
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Message != nil &&
			restErr.Message.Code == discordgo.ErrCodeUnknownChannel {
			return nil
		}
		return fmt.Errorf("failed to delete channel %d: %w", channelID, err)
	}
	return nil
}

// SendMessage posts a plain message to a channel.
func (g *DiscordGateway) SendMessage(ctx context.Context, channelID int64, content string) error {
	_, err := g.session.ChannelMessageSend(formatID(channelID), content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message to channel %d: %w", channelID, err)
	}
	return nil
}

// SendDM opens (or reuses) a DM channel with the user and posts to it.
func (g *DiscordGateway) SendDM(ctx context.Context, discordID int64, content string) error {
	channel, err := g.session.UserChannelCreate(formatID(discordID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM with %d: %w", discordID, err)
	}
	if _, err := g.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to DM %d: %w", discordID, err)
	}
	return nil
}

// SetChannelAccess adjusts a single member's overwrite on a channel.
func (g *DiscordGateway) SetChannelAccess(ctx context.Context, channelID int64, discordID int64, access interfaces.ChannelAccess) error {
	allow, deny := accessPermissions(access)
	err := g.session.ChannelPermissionSet(
		formatID(channelID),
		formatID(discordID),
		discordgo.PermissionOverwriteTypeMember,
		allow,
		deny,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to set access on channel %d for %d: %w", channelID, discordID, err)
	}
	return nil
}

// EnsureRole resolves a role by name, creating it when absent.
func (g *DiscordGateway) EnsureRole(ctx context.Context, guildID int64, name string) (int64, error) {
	guild := formatID(guildID)

	roles, err := g.session.GuildRoles(guild, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == name {
			return parseID(role.ID)
		}
	}

	role, err := g.session.GuildRoleCreate(guild, &discordgo.RoleParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	log.WithField("role", name).Info("Created guild role")
	return parseID(role.ID)
}

// GrantRole adds the named role to a member.
func (g *DiscordGateway) GrantRole(ctx context.Context, guildID int64, discordID int64, roleName string) error {
	roleID, err := g.EnsureRole(ctx, guildID, roleName)
	if err != nil {
		return err
	}
	err = g.session.GuildMemberRoleAdd(formatID(guildID), formatID(discordID), formatID(roleID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to grant role %s to %d: %w", roleName, discordID, err)
	}
	return nil
}

// RevokeRole removes the named role from a member. A role that does not
// exist in the guild is treated as already revoked.
func (g *DiscordGateway) RevokeRole(ctx context.Context, guildID int64, discordID int64, roleName string) error {
	guild := formatID(guildID)

	roles, err := g.session.GuildRoles(guild, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == roleName {
			if err := g.session.GuildMemberRoleRemove(guild, formatID(discordID), role.ID, discordgo.WithContext(ctx)); err != nil {
				return fmt.Errorf("failed to revoke role %s from %d: %w", roleName, discordID, err)
			}
			return nil
		}
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return parsed, nil
}
