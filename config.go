package urlwatch

import "time"

// Config holds everything one run needs. Loading lives in the viper
// subpackage; validation semantics live here with the domain.
type Config struct {
	// DataDir holds the per-source store files.
	DataDir string `mapstructure:"data_dir"`

	Request RequestConfig `mapstructure:"request"`
	Sources []Source      `mapstructure:"sources"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
}

// RequestConfig configures the HTTP fetch layer.
type RequestConfig struct {
	// TimeoutSeconds bounds a single attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// MaxRetries is the total number of attempts (>= 1).
	MaxRetries int `mapstructure:"max_retries"`

	// RetryDelaySeconds is the fixed pause between attempts.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds"`
}

// Timeout returns the per-attempt timeout as a duration.
func (c RequestConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the inter-attempt delay as a duration.
func (c RequestConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// SMTPConfig configures the mail reporter.
type SMTPConfig struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
}

// Validate returns an EINVALID error describing every problem found.
func (c *Config) Validate() error {
	var problems []string

	if c.DataDir == "" {
		problems = append(problems, "data_dir is required")
	}
	if c.Request.TimeoutSeconds <= 0 {
		problems = append(problems, "request.timeout_seconds must be positive")
	}
	if c.Request.MaxRetries < 1 {
		problems = append(problems, "request.max_retries must be at least 1")
	}
	if c.Request.RetryDelaySeconds < 0 {
		problems = append(problems, "request.retry_delay_seconds must not be negative")
	}
	if len(c.Sources) == 0 {
		problems = append(problems, "at least one source is required")
	}
	names := make(map[string]bool)
	for i := range c.Sources {
		if err := c.Sources[i].Validate(); err != nil {
			problems = append(problems, ErrorMessage(err))
			continue
		}
		if names[c.Sources[i].Name] {
			problems = append(problems, "duplicate source name "+c.Sources[i].Name)
		}
		names[c.Sources[i].Name] = true
	}

	if len(problems) == 0 {
		return nil
	}
	msg := problems[0]
	for _, p := range problems[1:] {
		msg += "; " + p
	}
	return Errorf(EINVALID, "invalid configuration: %s", msg)
}

// ValidateMail checks the fields the mail reporter needs. Kept separate
// from Validate so --no-mail runs work without SMTP credentials.
func (c *Config) ValidateMail() error {
	var problems []string

	if c.SMTP.Host == "" {
		problems = append(problems, "smtp.host is required")
	}
	if c.SMTP.Port <= 0 {
		problems = append(problems, "smtp.port must be positive")
	}
	if c.SMTP.Username == "" {
		problems = append(problems, "smtp.username is required")
	}
	if c.SMTP.Password == "" {
		problems = append(problems, "smtp.password is required")
	}
	if c.SMTP.From == "" {
		problems = append(problems, "smtp.from is required")
	}
	if len(c.SMTP.Recipients) == 0 {
		problems = append(problems, "smtp.recipients must be a non-empty list")
	}

	if len(problems) == 0 {
		return nil
	}
	msg := problems[0]
	for _, p := range problems[1:] {
		msg += "; " + p
	}
	return Errorf(EINVALID, "invalid mail configuration: %s", msg)
}
