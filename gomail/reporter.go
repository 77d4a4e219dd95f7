// Package gomail sends the daily run report by email using gopkg.in/gomail.v2.
package gomail

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/fwojciec/urlwatch"
	"gopkg.in/gomail.v2"
)

// Subject is the fixed subject line of the daily report.
const Subject = "Daily URL Discovery Report"

// Ensure Reporter implements urlwatch.Reporter at compile time.
var _ urlwatch.Reporter = (*Reporter)(nil)

// Reporter delivers run reports over SMTP with plain login and STARTTLS.
// A report is sent even when the delta is empty, so a silent day is
// distinguishable from a broken run.
type Reporter struct {
	cfg    urlwatch.SMTPConfig
	dial   func(m *gomail.Message) error
	logger *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger used for delivery events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// WithDial overrides the SMTP delivery function. This is useful for
// testing message construction without a mail server.
func WithDial(dial func(m *gomail.Message) error) Option {
	return func(r *Reporter) {
		r.dial = dial
	}
}

// NewReporter creates a Reporter for the given SMTP configuration.
func NewReporter(cfg urlwatch.SMTPConfig, opts ...Option) *Reporter {
	r := &Reporter{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dial == nil {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		r.dial = func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		}
	}
	return r
}

// SendReport builds the multipart (plain + HTML) message and delivers it
// to every configured recipient.
func (r *Reporter) SendReport(report *urlwatch.Report) error {
	recipients := cleanRecipients(r.cfg.Recipients)
	if len(recipients) == 0 {
		return urlwatch.Errorf(urlwatch.EINVALID, "no mail recipients configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", r.cfg.From)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", Subject)
	m.SetBody("text/plain", FormatText(report))
	m.AddAlternative("text/html", FormatHTML(report))

	r.logger.Info("sending report email",
		"host", r.cfg.Host, "port", r.cfg.Port,
		"recipients", len(recipients), "total_new", report.TotalNew())

	if err := r.dial(m); err != nil {
		return urlwatch.Errorf(urlwatch.EUNAVAILABLE, "sending report email: %v", err)
	}

	r.logger.Info("report email sent")
	return nil
}

// cleanRecipients drops blank entries and strips whitespace.
func cleanRecipients(recipients []string) []string {
	var out []string
	for _, rcpt := range recipients {
		if r := strings.TrimSpace(rcpt); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// FormatText renders the plain-text body of the report.
func FormatText(report *urlwatch.Report) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	b.WriteString(rule + "\n")
	b.WriteString(Subject + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Report generated on: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Summary: found %d new URL(s)\n", report.TotalNew())
	b.WriteString(rule + "\n")

	if report.TotalNew() == 0 {
		b.WriteString("\nNo new URLs discovered today.\n")
	}

	for _, source := range report.Sources {
		urls := report.NewURLs[source]
		if len(urls) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(sourceTitle(source)))
		b.WriteString(strings.Repeat("-", 70) + "\n")
		fmt.Fprintf(&b, "Found %d new URL(s):\n\n", len(urls))
		for i, u := range urls {
			fmt.Fprintf(&b, "%d. %s\n", i+1, u)
		}
	}

	b.WriteString("\n" + strings.Repeat("-", 70) + "\n")
	b.WriteString("This is an automated email from urlwatch.\n")
	return b.String()
}

// FormatHTML renders the HTML body of the report. URLs are escaped.
func FormatHTML(report *urlwatch.Report) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", Subject)
	fmt.Fprintf(&b, "<p>Report generated on: %s</p>\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "<p><strong>Summary:</strong> found <strong>%d</strong> new URL(s)</p>\n", report.TotalNew())

	if report.TotalNew() == 0 {
		b.WriteString("<p><em>No new URLs discovered today.</em></p>\n")
	}

	for _, source := range report.Sources {
		urls := report.NewURLs[source]
		if len(urls) == 0 {
			continue
		}
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(sourceTitle(source)))
		fmt.Fprintf(&b, "<p>%d new URL(s)</p>\n<ul>\n", len(urls))
		for _, u := range urls {
			escaped := html.EscapeString(u)
			fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", escaped, escaped)
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("<hr>\n<p>This is an automated email from urlwatch.</p>\n</body>\n</html>\n")
	return b.String()
}

// sourceTitle turns a source identifier into a heading ("security_blog"
// becomes "security blog").
func sourceTitle(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
