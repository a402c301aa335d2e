package config

import (
	"github.com/AleLBO/chatIRC-epitech/pkg/transport"
)

type Config struct {
	Server     ServerConfig
	Transport  transport.Config
	Log        LogConfig
	Membership MembershipConfig
}

type ServerConfig struct {
	Address string
	Auth    AuthConfig
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
}

type LogConfig struct {
	Level string
}

// MembershipConfig seeds the static membership oracle for
// single-binary deployments: server id -> user id -> role name.
// Viper lowercases map keys, so ids are plain decimal strings.
type MembershipConfig struct {
	Servers map[string]map[string]string `mapstructure:"servers"`
}
