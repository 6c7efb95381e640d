package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ParseSnowflake converts a Discord snowflake string to int64.
func ParseSnowflake(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return parsed, nil
}

// InteractionUser returns the invoking member's id and username. Interactions
// outside a guild return an error.
func InteractionUser(i *discordgo.InteractionCreate) (int64, string, error) {
	if i.Member == nil || i.Member.User == nil {
		return 0, "", fmt.Errorf("interaction without guild member")
	}
	id, err := ParseSnowflake(i.Member.User.ID)
	if err != nil {
		return 0, "", err
	}
	return id, i.Member.User.Username, nil
}

// MemberHasRole reports whether the invoking member carries the named role.
func MemberHasRole(s *discordgo.Session, i *discordgo.InteractionCreate, roleName string) (bool, error) {
	if i.Member == nil {
		return false, nil
	}
	roles, err := s.GuildRoles(i.GuildID)
	if err != nil {
		return false, fmt.Errorf("failed to list guild roles: %w", err)
	}

	var roleID string
	for _, role := range roles {
		if role.Name == roleName {
			roleID = role.ID
			break
		}
	}
	if roleID == "" {
		return false, nil
	}

	for _, id := range i.Member.Roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}
