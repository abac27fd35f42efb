package config

type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetAPIBaseURL() string
	GetLogLevel() string
	GetEnv() string
}

type SessionConfig interface {
	GetSessionStore() string
	GetDataFolder() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetSessionTTLHours() int
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
