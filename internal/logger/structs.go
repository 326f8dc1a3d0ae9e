package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// RollingFile describes one lumberjack rotated log file.
type RollingFile struct {
	Name       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Path    string `toml:"path"    mapstructure:"path"`

	AccessLog        string `toml:"access"           mapstructure:"access"`
	AccessMaxSize    int    `toml:"accessMaxSize"    mapstructure:"accessMaxSize"`
	AccessMaxBackups int    `toml:"accessMaxBackups" mapstructure:"accessMaxBackups"`
	AccessMaxAge     int    `toml:"accessMaxAge"     mapstructure:"accessMaxAge"`

	ErrorLog        string `toml:"error"           mapstructure:"error"`
	ErrorMaxSize    int    `toml:"errorMaxSize"    mapstructure:"errorMaxSize"`
	ErrorMaxBackups int    `toml:"errorMaxBackups" mapstructure:"errorMaxBackups"`
	ErrorMaxAge     int    `toml:"errorMaxAge"     mapstructure:"errorMaxAge"`

	InfoLog        string `toml:"info"           mapstructure:"info"`
	InfoMaxSize    int    `toml:"infoMaxSize"    mapstructure:"infoMaxSize"`
	InfoMaxBackups int    `toml:"infoMaxBackups" mapstructure:"infoMaxBackups"`
	InfoMaxAge     int    `toml:"infoMaxAge"     mapstructure:"infoMaxAge"`

	TraceLog        string `toml:"trace"           mapstructure:"trace"`
	TraceMaxSize    int    `toml:"traceMaxSize"    mapstructure:"traceMaxSize"`
	TraceMaxBackups int    `toml:"traceMaxBackups" mapstructure:"traceMaxBackups"`
	TraceMaxAge     int    `toml:"traceMaxAge"     mapstructure:"traceMaxAge"`

	WarnLog        string `toml:"warn"           mapstructure:"warn"`
	WarnMaxSize    int    `toml:"warnMaxSize"    mapstructure:"warnMaxSize"`
	WarnMaxBackups int    `toml:"warnMaxBackups" mapstructure:"warnMaxBackups"`
	WarnMaxAge     int    `toml:"warnMaxAge"     mapstructure:"warnMaxAge"`
}

// AccessFile returns the rotation settings of the access log.
func (f LogFile) AccessFile() RollingFile {
	return RollingFile{f.AccessLog, f.AccessMaxSize, f.AccessMaxBackups, f.AccessMaxAge}
}

// ErrorFile returns the rotation settings of the error log.
func (f LogFile) ErrorFile() RollingFile {
	return RollingFile{f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxBackups, f.ErrorMaxAge}
}

// InfoFile returns the rotation settings of the info log.
func (f LogFile) InfoFile() RollingFile {
	return RollingFile{f.InfoLog, f.InfoMaxSize, f.InfoMaxBackups, f.InfoMaxAge}
}

// TraceFile returns the rotation settings of the trace log.
func (f LogFile) TraceFile() RollingFile {
	return RollingFile{f.TraceLog, f.TraceMaxSize, f.TraceMaxBackups, f.TraceMaxAge}
}

// WarnFile returns the rotation settings of the warn log.
func (f LogFile) WarnFile() RollingFile {
	return RollingFile{f.WarnLog, f.WarnMaxSize, f.WarnMaxBackups, f.WarnMaxAge}
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the fiber access log to stdout.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File rotated log files, one per level group.
	File LogFile `toml:"file" mapstructure:"file"`
}
