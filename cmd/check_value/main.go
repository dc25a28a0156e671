// Command check_value is the reference probe: it classifies a single
// operator-supplied value against warning and critical thresholds.
//
//	check_value --value 42 -w 10:20 -c 0:40
package main

import (
	"fmt"
	"os"

	"github.com/probekit/probekit/pkg/plugin"
)

func main() {
	p := plugin.New("check_value", plugin.WithVersion("1.0.0"))
	defer p.Recover()

	warning := p.Flags().StringP("warning", "w", "", "warning threshold")
	critical := p.Flags().StringP("critical", "c", "", "critical threshold")
	value := p.Flags().Float64("value", 0, "value to check (required)")

	p.ParseArgs(os.Args[1:])
	p.SetTimeout(0, plugin.Unknown)

	if !p.Flags().Changed("value") {
		p.Exit(plugin.Critical, "error: --value is required", "", "")
	}

	code, err := plugin.CheckThreshold(*value, *warning, *critical)
	if err != nil {
		p.Die(err.Error())
	}
	p.AddResult(code, fmt.Sprintf("value=%v", *value))

	pd, err := plugin.NewPerfdata("value", *value,
		plugin.WithWarning(*warning),
		plugin.WithCritical(*critical),
		plugin.WithMinimum(0),
		plugin.WithMaximum(100),
	)
	if err != nil {
		p.Die(err.Error())
	}
	p.AddPerfdata(pd)

	if p.Verbosity() > 2 {
		p.AddExtData(fmt.Sprintf("value has been determined to be %v", *value))
	}

	p.Finish()
}
