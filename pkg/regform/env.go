package regform

import "os"

// Credentials authenticate against the grid and its job tracker.
type Credentials struct {
	Username  string
	AccessKey string
}

// Placeholders used when the environment does not provide credentials.
const (
	PlaceholderUsername  = "Username"
	PlaceholderAccessKey = "Access Key"
)

// CredentialsFromEnv reads LT_USERNAME and LT_ACCESS_KEY, falling back to
// the placeholders for unset or empty variables.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Username:  getenv("LT_USERNAME", PlaceholderUsername),
		AccessKey: getenv("LT_ACCESS_KEY", PlaceholderAccessKey),
	}
}

// IsPlaceholder reports whether either value is still a placeholder.
func (c Credentials) IsPlaceholder() bool {
	return c.Username == PlaceholderUsername || c.AccessKey == PlaceholderAccessKey
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
