// Package plugin implements the evaluation and reporting contract of
// active monitoring probes.
//
// A probe measures one or more values, classifies each against
// operator-supplied thresholds, and reports a single worst-case
// severity on stdout in the fixed format monitoring agents parse:
//
//	NAME SEVERITY - message | perfdata
//
// followed by optional extended data lines, with the process exit code
// equal to the severity. There is no other protocol: the exit code and
// the report line together are the wire format.
//
// A Plugin owns the whole run: it registers command-line flags,
// enforces a deadline, accumulates results and performance data, maps
// uncaught faults to well-defined reports, and performs the single
// final emission. Typical use:
//
//	p := plugin.New("check_example", plugin.WithVersion("1.0.0"))
//	defer p.Recover()
//	warn := p.Flags().StringP("warning", "w", "", "warning threshold")
//	crit := p.Flags().StringP("critical", "c", "", "critical threshold")
//	p.ParseArgs(os.Args[1:])
//	p.SetTimeout(0, plugin.Unknown)
//
//	code, err := plugin.CheckThreshold(value, *warn, *crit)
//	if err != nil {
//		p.Die(err.Error())
//	}
//	p.AddResult(code, fmt.Sprintf("value=%v", value))
//	p.Finish()
package plugin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
)

const (
	// DefaultTimeout is the deadline used by SetTimeout when no
	// explicit value is given and no --timeout flag was parsed.
	DefaultTimeout = 10

	// defaultTimeoutFlag is the default of the standard --timeout flag.
	defaultTimeoutFlag = 30
)

// FaultHandler maps an uncaught fault (a recovered panic value and its
// stack trace) to a terminal report. It must not return control to the
// probe; the default handler reports UNKNOWN with the stack as extended
// data and exits.
type FaultHandler func(p *Plugin, fault any, stack []byte)

// Plugin is the execution guard and result ledger of one probe run.
// It is scoped to a single process invocation and never reused.
type Plugin struct {
	name    string
	version string

	flags   *pflag.FlagSet
	ledger  *Ledger
	out     io.Writer
	exitFn  func(int)
	faultFn FaultHandler

	// standard flag values, nil when WithoutDefaultFlags was used
	hostname    *string
	timeout     *int
	verbose     *int
	showVersion *bool

	mu       sync.Mutex
	timer    *time.Timer
	emitOnce sync.Once
}

// Option is a functional option for configuring a Plugin.
type Option func(*Plugin)

// WithVersion sets the version reported by the standard -V flag.
func WithVersion(version string) Option {
	return func(p *Plugin) {
		p.version = version
	}
}

// WithOutput redirects the report emission, normally to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Plugin) {
		p.out = w
	}
}

// WithExitFunc replaces the process-termination function, normally
// os.Exit. Intended for tests.
func WithExitFunc(fn func(int)) Option {
	return func(p *Plugin) {
		p.exitFn = fn
	}
}

// WithFaultHandler replaces the strategy applied by Recover to uncaught
// faults. The handler's applicability is bounded by this plugin's
// lifetime; there is no process-global hook.
func WithFaultHandler(fn FaultHandler) Option {
	return func(p *Plugin) {
		p.faultFn = fn
	}
}

// WithoutDefaultFlags suppresses registration of the standard
// -H/--hostname, -t/--timeout, -v/--verbose and -V/--version flags.
func WithoutDefaultFlags() Option {
	return func(p *Plugin) {
		p.flags = pflag.NewFlagSet(p.name, pflag.ContinueOnError)
		p.flags.SetOutput(io.Discard)
		p.hostname = nil
		p.timeout = nil
		p.verbose = nil
		p.showVersion = nil
	}
}

// New creates a Plugin. An empty name defaults to the basename of the
// current executable, which is what the report line and usage text use.
func New(name string, opts ...Option) *Plugin {
	if name == "" {
		name = filepath.Base(os.Args[0])
	}

	p := &Plugin{
		name:    name,
		version: "undefined",
		ledger:  NewLedger(),
		out:     os.Stdout,
		exitFn:  os.Exit,
		faultFn: defaultFaultHandler,
	}

	p.flags = pflag.NewFlagSet(name, pflag.ContinueOnError)
	p.flags.SetOutput(io.Discard)
	p.flags.SortFlags = false
	p.hostname = p.flags.StringP("hostname", "H", "", "hostname to check")
	p.timeout = p.flags.IntP("timeout", "t", defaultTimeoutFlag, "timeout in seconds")
	p.verbose = p.flags.CountP("verbose", "v", "increase verbosity")
	p.showVersion = p.flags.BoolP("version", "V", false, "show version")

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the probe name.
func (p *Plugin) Name() string {
	return p.name
}

// Flags returns the flag set so probes can register their own flags
// before calling ParseArgs.
func (p *Plugin) Flags() *pflag.FlagSet {
	return p.flags
}

// Hostname returns the value of the standard --hostname flag, or ""
// when default flags are disabled.
func (p *Plugin) Hostname() string {
	if p.hostname == nil {
		return ""
	}
	return *p.hostname
}

// Timeout returns the value of the standard --timeout flag, or 0 when
// default flags are disabled.
func (p *Plugin) Timeout() int {
	if p.timeout == nil {
		return 0
	}
	return *p.timeout
}

// Verbosity returns how many times the standard --verbose flag was
// given, or 0 when default flags are disabled.
func (p *Plugin) Verbosity() int {
	if p.verbose == nil {
		return 0
	}
	return *p.verbose
}

// ParseArgs parses the command line (normally os.Args[1:]).
//
// A parse failure is a terminal condition: the plugin reports CRITICAL
// with the parser's message as the headline and the usage text as
// extended data, then exits. --help prints the usage text and exits 0;
// the standard --version flag prints "name version" and exits 0.
func (p *Plugin) ParseArgs(arguments []string) {
	err := p.flags.Parse(arguments)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(p.out, p.usage())
			p.exitFn(int(OK))
			return
		}
		p.Exit(Critical, fmt.Sprintf("error: %v", err), "", p.usage())
		return
	}

	if p.showVersion != nil && *p.showVersion {
		fmt.Fprintf(p.out, "%s %s\n", p.name, p.version)
		p.exitFn(int(OK))
	}
}

// usage builds the usage text placed in extended data on parse errors.
func (p *Plugin) usage() string {
	return fmt.Sprintf("Usage of %s:\n%s", p.name, p.flags.FlagUsages())
}

// SetTimeout arms the run deadline. When the deadline fires before the
// probe finishes, the plugin emits "plugin timed out after N seconds"
// at the given severity, bypassing any partially-built ledger content,
// and exits. Re-arming replaces the previous deadline.
//
// seconds <= 0 means the parsed --timeout value, falling back to
// DefaultTimeout. A severity outside the defined set means Unknown.
func (p *Plugin) SetTimeout(seconds int, code Severity) {
	if seconds <= 0 {
		seconds = p.Timeout()
		if seconds <= 0 {
			seconds = DefaultTimeout
		}
	}
	if code < OK || code > Unknown {
		code = Unknown
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		p.Exit(code, fmt.Sprintf("plugin timed out after %d seconds", seconds), "", "")
	})
}

// Recover converts an uncaught panic into a terminal report via the
// configured fault handler. Defer it at the top of the probe's main:
//
//	defer p.Recover()
//
// so that every execution path, including crashes, still produces a
// well-formed report line and exit code.
func (p *Plugin) Recover() {
	if r := recover(); r != nil {
		p.faultFn(p, r, debug.Stack())
	}
}

// defaultFaultHandler reports UNKNOWN with the fault description as the
// headline and the stack trace as extended data.
func defaultFaultHandler(p *Plugin, fault any, stack []byte) {
	p.Exit(Unknown, fmt.Sprintf("uncaught panic: %v", fault), "", string(stack))
}

// AddResult appends one evaluated (severity, message) pair to the ledger.
func (p *Plugin) AddResult(severity Severity, message string) {
	p.ledger.AddResult(severity, message)
}

// AddPerfdata appends a performance data entry to the ledger.
func (p *Plugin) AddPerfdata(pd *Perfdata) {
	p.ledger.AddPerfdata(pd)
}

// AddExtData appends one free-form extended data line to the ledger.
func (p *Plugin) AddExtData(line string) {
	p.ledger.AddExtData(line)
}

// Results returns the recorded results in insertion order.
func (p *Plugin) Results() []Result {
	return p.ledger.Results()
}

// Code returns the ledger's aggregate severity.
func (p *Plugin) Code() Severity {
	return p.ledger.Code()
}

// Message composes the ledger messages for the given levels; see
// Ledger.Message.
func (p *Plugin) Message(levels []Severity, joiner string) string {
	return p.ledger.Message(levels, joiner)
}

// Perfdata returns the ledger's serialized performance data.
func (p *Plugin) Perfdata() string {
	return p.ledger.Perfdata()
}

// ExtData returns the ledger's composed extended data.
func (p *Plugin) ExtData() string {
	return p.ledger.ExtData()
}

// Finish resolves the final report from the ledger and exits: the
// aggregate severity, the messages of that severity joined by ", ",
// the serialized perfdata, and the composed extended data. Probes
// needing to override individual parts compose them from the Code,
// Message, Perfdata and ExtData accessors and call Exit directly.
func (p *Plugin) Finish() {
	code := p.ledger.Code()
	p.Exit(code,
		p.ledger.Message([]Severity{code}, DefaultJoiner),
		p.ledger.Perfdata(),
		p.ledger.ExtData())
}

// Die reports an internal error: always UNKNOWN, no perfdata, no
// extended data.
func (p *Plugin) Die(message string) {
	p.Exit(Unknown, message, "", "")
}

// Exit writes the report line, then the extended data if any, and
// terminates the process with an exit code equal to the severity.
// All terminal paths (normal completion, timeout, fault, usage error)
// funnel through here; the emission happens at most once even when a
// deadline races normal completion.
func (p *Plugin) Exit(code Severity, message, perfdata, extdata string) {
	if code < OK || code > Unknown {
		code = Unknown
	}
	p.emitOnce.Do(func() {
		fmt.Fprintf(p.out, "%s %s - %s | %s\n",
			strings.ToUpper(p.name), code, message, perfdata)
		if extdata != "" {
			fmt.Fprintln(p.out, extdata)
		}
		p.exitFn(int(code))
	})
}
