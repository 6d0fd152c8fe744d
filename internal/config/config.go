package config

type Config interface {
	EnvConfig
	CorsConfig
	JWTConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
	GetExposedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	JWT
}

// New loads the full configuration from the environment. The JWT section is
// read once at process start; callers must check Validate before serving.
func New() Config {
	return mainConfig{JWT: jwtFromEnv()}
}

// NewWithJWT builds a Config around an explicit JWT section, primarily for
// tests and embedded use.
func NewWithJWT(jwtCfg JWT) Config {
	return mainConfig{JWT: jwtCfg}
}
