package interfaces

import (
	"context"
)

// ChannelAccess is the permission tier granted to an overwrite target.
type ChannelAccess int

const (
	// AccessNone hides the channel from the target.
	AccessNone ChannelAccess = iota
	// AccessView lets the target see the channel but not send.
	AccessView
	// AccessWrite lets the target see and send.
	AccessWrite
)

// Overwrite grants a channel access tier to a user or role.
type Overwrite struct {
	TargetID int64
	Role     bool
	Access   ChannelAccess
}

// ChannelSpec describes a channel to provision.
type ChannelSpec struct {
	Name       string
	Category   string
	Voice      bool
	Overwrites []Overwrite
}

// MessagingGateway abstracts the Discord surface the domain layer talks to.
// Implementations live outside the domain so services stay testable with
// mocks.
type MessagingGateway interface {
	// CreateChannel provisions a channel (creating the category if missing)
	// and returns its id
	CreateChannel(ctx context.Context, guildID int64, spec ChannelSpec) (int64, error)

	// DeleteChannel removes a channel; deleting an already-deleted channel is
	// not an error
	DeleteChannel(ctx context.Context, channelID int64) error

	// SendMessage posts a plain message to a channel
	SendMessage(ctx context.Context, channelID int64, content string) error

	// SendDM opens (or reuses) a DM channel with the user and posts to it
	SendDM(ctx context.Context, discordID int64, content string) error

	// SetChannelAccess adjusts a single member's overwrite on a channel
	SetChannelAccess(ctx context.Context, channelID int64, discordID int64, access ChannelAccess) error

	// EnsureRole resolves a role by name, creating it when absent, and
	// returns its id
	EnsureRole(ctx context.Context, guildID int64, name string) (int64, error)

	// GrantRole adds the named role to a member
	GrantRole(ctx context.Context, guildID int64, discordID int64, roleName string) error

	// RevokeRole removes the named role from a member
	RevokeRole(ctx context.Context, guildID int64, discordID int64, roleName string) error
}
