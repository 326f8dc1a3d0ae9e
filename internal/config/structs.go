package config

import (
	"time"

	"github.com/jesite/jesite/internal/logger"
)

// Session settings.
type Session struct {
	Secret     string        // HMAC secret used to sign session tokens
	ExpiryTime time.Duration // lifetime of an issued session
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	Title      string
	DB         DB
	Log        logger.Log
	Webserver  Webserver
	Mail       Mail
	Newsletter Newsletter
	Bootstrap  Bootstrap
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic    bool          // enable static file browsing (for development purposes only)
	CacheEnabled    bool          // cache rendered public pages
	CacheExpiration time.Duration // lifetime of a cached public page
	DisableRecover  bool          // disable recover middleware
	Port            int           // listening port for the webserver
	ShutDownTime    int           // wait time for shutdown in seconds
	URL             string        // public base url, used for links in emails
	Session         Session       // session settings
}

// Mail holds the outbound SMTP settings.
type Mail struct {
	Enabled  bool // false logs emails instead of sending them
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Newsletter holds the campaign scheduler settings.
type Newsletter struct {
	Schedule  string // cron spec used to look for due campaigns
	BatchSize int    // subscribers loaded per query while sending
}

// Bootstrap holds the credentials of the administrator created on an empty database.
type Bootstrap struct {
	AdminEmail    string
	AdminUsername string
	AdminPassword string
}
