package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           int
	GatewayURL     string
	GatewayKey     string
	GatewayModel   string
	TranscribeURL  string
	RosterPath     string
	ManifestPath   string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	AlertFrom      string
	AlertRecipient string
	MockLLM        bool
	MockTranscribe bool
}

func Load() Config {
	return Config{
		Port:           envInt("PORT", 8080),
		GatewayURL:     envStr("LLM_GATEWAY_URL", ""),
		GatewayKey:     envStr("LLM_API_KEY", ""),
		GatewayModel:   envStr("LLM_MODEL", "llama3-8b-8192"),
		TranscribeURL:  envStr("TRANSCRIBE_URL", ""),
		RosterPath:     envStr("ROSTER_PATH", ""),
		ManifestPath:   envStr("MANIFEST_PATH", "calls_manifest.xlsx"),
		SMTPHost:       envStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       envInt("SMTP_PORT", 587),
		SMTPUser:       envStr("EMAIL_USER", ""),
		SMTPPassword:   envStr("EMAIL_PASSWORD", ""),
		AlertFrom:      envStr("ALERT_FROM", envStr("EMAIL_USER", "")),
		AlertRecipient: envStr("ALERT_RECIPIENT", ""),
		MockLLM:        envBool("USE_MOCK_LLM"),
		MockTranscribe: envBool("USE_MOCK_TRANSCRIBE"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string) bool {
	return os.Getenv(key) == "true"
}
