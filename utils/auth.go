package utils

import (
	"starboard-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.CommandsConfig
}

// NewAuth creates a new Auth instance with the loaded configuration.
func NewAuth() (*Auth, error) {
	var commandsConfig models.CommandsConfig
	if err := viper.UnmarshalKey("commands", &commandsConfig); err != nil {
		return nil, err
	}
	return &Auth{config: commandsConfig}, nil
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	for _, devID := range a.config.Auth.Developers {
		if userID == devID {
			return true
		}
	}
	return false
}

// IsAdmin checks if a member has an admin role or the Manage Messages
// permission.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionManageMessages != 0 {
		return true
	}
	for _, adminRoleID := range a.config.Auth.AdminsRoles {
		for _, userRoleID := range member.Roles {
			if userRoleID == adminRoleID {
				return true
			}
		}
	}
	return false
}

// CheckPermission checks if the interaction's author has the required
// permission level.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate, requiredLevel string) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}
	switch requiredLevel {
	case "developer":
		return a.IsDeveloper(i.Member.User.ID)
	case "admin":
		return a.IsDeveloper(i.Member.User.ID) || a.IsAdmin(i.Member)
	case "guest":
		return true
	default:
		return false
	}
}
