// Command check_http probes one or more URLs with HTTP GET and
// classifies each response time in milliseconds against warning and
// critical thresholds. An unreachable URL is CRITICAL regardless of
// thresholds.
//
//	check_http --url https://example.com/ -w 200 -c 500
//
// Thresholds may also come from a YAML profile file:
//
//	check_http --url https://example.com/ --profiles thresholds.yaml --profile response_time
package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/probekit/probekit/pkg/plugin"
	"github.com/probekit/probekit/pkg/profile"
)

func main() {
	p := plugin.New("check_http", plugin.WithVersion("1.0.0"))
	defer p.Recover()

	urls := p.Flags().StringArrayP("url", "u", nil, "URL to check (repeatable)")
	warning := p.Flags().StringP("warning", "w", "", "warning threshold on response time in ms")
	critical := p.Flags().StringP("critical", "c", "", "critical threshold on response time in ms")
	profilesPath := p.Flags().String("profiles", "", "YAML threshold profile file")
	profileName := p.Flags().String("profile", "response_time", "profile name to use from the profile file")
	skipVerify := p.Flags().Bool("skip-verify", false, "skip TLS certificate verification")

	p.ParseArgs(os.Args[1:])
	p.SetTimeout(0, plugin.Unknown)

	log := newLogger(p)

	if len(*urls) == 0 {
		p.Exit(plugin.Critical, "error: at least one --url is required", "", "")
	}

	warn, crit := *warning, *critical
	if *profilesPath != "" {
		profiles, err := profile.Load(*profilesPath)
		if err != nil {
			p.Die(err.Error())
		}
		prof, err := profile.Lookup(profiles, *profileName)
		if err != nil {
			p.Die(err.Error())
		}
		// explicit flags win over the profile file
		if !p.Flags().Changed("warning") {
			warn = prof.Warning
		}
		if !p.Flags().Changed("critical") {
			crit = prof.Critical
		}
		log.Debugf("using profile %q: warning=%q critical=%q", *profileName, warn, crit)
	}

	var warnT, critT *plugin.Threshold
	var err error
	if warn != "" {
		if warnT, err = plugin.NewThreshold(warn); err != nil {
			p.Die(err.Error())
		}
	}
	if crit != "" {
		if critT, err = plugin.NewThreshold(crit); err != nil {
			p.Die(err.Error())
		}
	}

	client := &http.Client{
		Timeout: requestTimeout(p),
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: *skipVerify},
		},
	}

	for i, url := range *urls {
		start := time.Now()
		resp, err := client.Get(url)
		elapsed := time.Since(start)

		if err != nil {
			p.AddResult(plugin.Critical, fmt.Sprintf("%s: %v", url, err))
			continue
		}
		resp.Body.Close()

		ms := float64(elapsed.Microseconds()) / 1000
		code := plugin.CheckBounds(ms, warnT, critT)
		p.AddResult(code, fmt.Sprintf("%s %s in %.1fms", url, resp.Status, ms))
		log.Debugf("%s: status %s, %.1fms", url, resp.Status, ms)

		pd, err := plugin.NewPerfdata(fmt.Sprintf("url%d", i), ms,
			plugin.WithUOM("ms"),
			plugin.WithWarning(warn),
			plugin.WithCritical(crit),
			plugin.WithMinimum(0),
		)
		if err != nil {
			p.Die(err.Error())
		}
		p.AddPerfdata(pd)
	}

	p.Finish()
}

// requestTimeout keeps each request inside the plugin deadline.
func requestTimeout(p *plugin.Plugin) time.Duration {
	secs := p.Timeout()
	if secs <= 0 {
		secs = plugin.DefaultTimeout
	}
	return time.Duration(secs) * time.Second
}

// newLogger builds a logger whose output lands in the plugin's
// extended data, with the level driven by -v.
func newLogger(p *plugin.Plugin) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.AddHook(plugin.NewExtDataHook(p))
	if p.Verbosity() >= 1 {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
