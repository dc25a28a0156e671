// Command check_dns probes a DNS server: it resolves one or more
// queries, optionally validates each answer against an expected value,
// and classifies the per-query round-trip time in milliseconds against
// warning and critical thresholds.
//
//	check_dns -H 192.0.2.53 -q example.com -q example.org/AAAA -w 50 -c 200
//
// Query syntax is name[/type[/expect]] with type one of A, AAAA, PTR
// (default A). A failed or mismatched query is CRITICAL regardless of
// thresholds.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/probekit/probekit/pkg/plugin"
)

// query is one parsed name/type/expect triplet.
type query struct {
	name   string
	qtype  uint16
	expect string
}

func main() {
	p := plugin.New("check_dns", plugin.WithVersion("1.0.0"))
	defer p.Recover()

	queries := p.Flags().StringArrayP("query", "q", nil, "query as name[/type[/expect]] (repeatable)")
	port := p.Flags().Int("port", 53, "DNS server port")
	warning := p.Flags().StringP("warning", "w", "", "warning threshold on RTT in ms")
	critical := p.Flags().StringP("critical", "c", "", "critical threshold on RTT in ms")
	qps := p.Flags().Float64("qps", 0, "pace queries at this rate (0 = unpaced)")

	p.ParseArgs(os.Args[1:])
	p.SetTimeout(0, plugin.Unknown)

	log := newLogger(p)

	if p.Hostname() == "" {
		p.Exit(plugin.Critical, "error: --hostname is required", "", "")
	}
	if len(*queries) == 0 {
		p.Exit(plugin.Critical, "error: at least one --query is required", "", "")
	}

	warnT, critT, err := parseThresholds(*warning, *critical)
	if err != nil {
		p.Die(err.Error())
	}

	server := net.JoinHostPort(p.Hostname(), fmt.Sprintf("%d", *port))
	client := &dns.Client{}

	var limiter *rate.Limiter
	if *qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(*qps), 1)
	}

	ctx := context.Background()
	for i, raw := range *queries {
		q, err := parseQuery(raw)
		if err != nil {
			p.Die(err.Error())
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				p.Die(fmt.Sprintf("rate limiter: %v", err))
			}
		}

		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(q.name), q.qtype)
		msg.RecursionDesired = true

		log.Debugf("querying %s for %s %s", server, qtypeName(q.qtype), q.name)
		resp, rtt, err := client.ExchangeContext(ctx, msg, server)
		if err != nil {
			p.AddResult(plugin.Critical, fmt.Sprintf("%s: %v", q.name, err))
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			p.AddResult(plugin.Critical,
				fmt.Sprintf("%s: rcode %s", q.name, dns.RcodeToString[resp.Rcode]))
			continue
		}
		if q.expect != "" {
			if err := validateAnswer(resp.Answer, q.qtype, q.expect); err != nil {
				p.AddResult(plugin.Critical, fmt.Sprintf("%s: %v", q.name, err))
				continue
			}
		}

		ms := float64(rtt.Microseconds()) / 1000
		code := plugin.CheckBounds(ms, warnT, critT)
		p.AddResult(code, fmt.Sprintf("%s %.1fms", q.name, ms))
		log.Debugf("%s answered in %.1fms", q.name, ms)

		pd, err := plugin.NewPerfdata(fmt.Sprintf("q%d", i), ms,
			plugin.WithUOM("ms"),
			plugin.WithWarning(*warning),
			plugin.WithCritical(*critical),
			plugin.WithMinimum(0),
		)
		if err != nil {
			p.Die(err.Error())
		}
		p.AddPerfdata(pd)
	}

	p.Finish()
}

// newLogger builds a logger whose output lands in the plugin's
// extended data, with the level driven by -v.
func newLogger(p *plugin.Plugin) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.AddHook(plugin.NewExtDataHook(p))
	switch {
	case p.Verbosity() >= 2:
		log.SetLevel(logrus.DebugLevel)
	case p.Verbosity() == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// parseThresholds parses the optional warning and critical expressions.
func parseThresholds(warning, critical string) (*plugin.Threshold, *plugin.Threshold, error) {
	var warnT, critT *plugin.Threshold
	var err error
	if warning != "" {
		if warnT, err = plugin.NewThreshold(warning); err != nil {
			return nil, nil, err
		}
	}
	if critical != "" {
		if critT, err = plugin.NewThreshold(critical); err != nil {
			return nil, nil, err
		}
	}
	return warnT, critT, nil
}

// parseQuery splits a name[/type[/expect]] argument.
func parseQuery(raw string) (query, error) {
	parts := strings.SplitN(raw, "/", 3)
	if parts[0] == "" {
		return query{}, fmt.Errorf("query %q: name must not be empty", raw)
	}

	q := query{name: parts[0], qtype: dns.TypeA}
	if len(parts) > 1 {
		qtype, err := parseQType(parts[1])
		if err != nil {
			return query{}, fmt.Errorf("query %q: %w", raw, err)
		}
		q.qtype = qtype
	}
	if len(parts) > 2 {
		q.expect = parts[2]
	}
	return q, nil
}

// parseQType converts a record type string to a miekg/dns type constant.
func parseQType(s string) (uint16, error) {
	switch strings.ToUpper(s) {
	case "A":
		return dns.TypeA, nil
	case "AAAA":
		return dns.TypeAAAA, nil
	case "PTR":
		return dns.TypePTR, nil
	default:
		return 0, fmt.Errorf("unsupported query type %q (supported: A, AAAA, PTR)", s)
	}
}

// qtypeName returns a human-readable record type name for log lines.
func qtypeName(qtype uint16) string {
	switch qtype {
	case dns.TypeA:
		return "A"
	case dns.TypeAAAA:
		return "AAAA"
	case dns.TypePTR:
		return "PTR"
	default:
		return fmt.Sprintf("TYPE%d", qtype)
	}
}

// validateAnswer checks that at least one RR in the answer section
// matches the expected value for the given query type.
func validateAnswer(rrs []dns.RR, qtype uint16, expect string) error {
	for _, rr := range rrs {
		switch qtype {
		case dns.TypeA:
			if a, ok := rr.(*dns.A); ok {
				if normalizeIP(a.A.String()) == normalizeIP(expect) {
					return nil
				}
			}
		case dns.TypeAAAA:
			if aaaa, ok := rr.(*dns.AAAA); ok {
				if normalizeIP(aaaa.AAAA.String()) == normalizeIP(expect) {
					return nil
				}
			}
		case dns.TypePTR:
			if ptr, ok := rr.(*dns.PTR); ok {
				if strings.TrimSuffix(ptr.Ptr, ".") == strings.TrimSuffix(expect, ".") {
					return nil
				}
			}
		}
	}
	return fmt.Errorf("expected %q not found in answer", expect)
}

// normalizeIP parses and re-serializes an IP address string for
// comparison, handling IPv4-in-IPv6 representations and leading zeros.
func normalizeIP(s string) string {
	ip := net.ParseIP(s)
	if ip == nil {
		return s
	}
	return ip.String()
}
