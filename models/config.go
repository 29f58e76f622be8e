package models

// CommandsConfig represents the "commands" section of config.yaml.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}

// AuthConfig lists who may run privileged commands.
type AuthConfig struct {
	Developers  []string `json:"developers" mapstructure:"developers"`
	AdminsRoles []string `json:"admins_roles" mapstructure:"admins_roles"`
}
