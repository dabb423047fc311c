// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration, loaded in LoadConfig
// from env vars (ROLEHUB_*), config files, or flags. WAFFLE's CoreConfig
// covers framework-level settings (ports, TLS, log level); everything
// specific to this app lives here.
type AppConfig struct {
	// MongoDB connection configuration. Change streams need a replica
	// set; a standalone mongod serves everything except live views.
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string
	SessionName   string
	SessionDomain string

	// The role every account joins at creation. Created at startup if
	// missing.
	GlobalRoleName string

	// Monthly reset job
	ResetEnabled bool

	// SuperAdmin bootstrap: promotes this email to the admin set on
	// startup so a fresh deployment has at least one admin.
	SuperAdminEmail string

	// Google OAuth configuration. Blank client id disables the flow.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks, e.g. "https://rolehub.example.com".
	BaseURL string
}
