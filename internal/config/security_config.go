package config

type SecurityConfig interface {
	GetAdminAPIKeyHash() string
	GetEnableRateLimiting() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetAdminAPIKeyHash returns the bcrypt hash of the admin API key protecting
// the mutating session routes. Empty disables the check (development only).
func (Security) GetAdminAPIKeyHash() string {
	return GetEnv("ADMIN_API_KEY_HASH", "")
}

func (Security) GetEnableRateLimiting() bool {
	return false // Not yet implemented
}
