package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/levynexus/nexus/internal/ocr"
)

// LoadOCRConfig loads OCR backend configuration from Viper and
// environment variables. Precedence:
// 1. Viper configuration (from config file or NEXUS_ env vars)
// 2. Direct environment variables (OPENAI_API_KEY)
// 3. Backend-internal defaults
func LoadOCRConfig() ocr.Config {
	cfg := ocr.Config{
		ServiceURL: viper.GetString("ocr.service_url"),
		PaddlePath: ExpandPath(viper.GetString("ocr.paddle_path")),
		PaddleLang: viper.GetString("ocr.paddle_lang"),
		APIKey:     viper.GetString("ocr.api_key"),
		BaseURL:    viper.GetString("ocr.base_url"),
		Model:      viper.GetString("ocr.model"),
		Preprocess: viper.GetBool("ocr.preprocess"),
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}
