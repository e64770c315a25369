package config

type DalleConfig struct {
	Model   string
	Size    string
	Quality string
}

func GetDalleConfig() *DalleConfig {
	return &DalleConfig{
		Model:   envOr("DALLE_MODEL", "dall-e-3"),
		Size:    envOr("DALLE_SIZE", "1024x1024"),
		Quality: envOr("DALLE_QUALITY", "standard"),
	}
}
