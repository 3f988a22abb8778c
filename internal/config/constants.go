package config

const (
	// DefaultDatabasePath is the default path for the embedded sqlite database
	DefaultDatabasePath = "./galmuri.db"

	// DefaultOCRLanguage covers Korean plus English, matching the capture
	// clients' primary audience
	DefaultOCRLanguage = "kor+eng"

	// MinAPITokenLength is the minimum length of the token part of an API key
	MinAPITokenLength = 16
)
