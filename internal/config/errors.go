package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySessionSecret error if no session secret is configured outside dev mode.
	ErrEmptySessionSecret = errors.New("toml config webserver.session.secret can not be empty")

	// ErrUnknownGormEngine error if db.gormEngine is not one of mysql, postgres or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine is not supported")
)
