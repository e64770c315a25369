package config

type ServerConfig struct {
	Addr string
}

func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr: ":" + envOr("PORT", "8080"),
	}
}
