package plugin

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// ExtDataHook is a logrus hook that forwards formatted log lines into a
// plugin's extended data, so diagnostic logging ends up after the
// report line instead of corrupting it. Install it on a logger whose
// Out is io.Discard to keep stdout clean:
//
//	log := logrus.New()
//	log.SetOutput(io.Discard)
//	log.AddHook(plugin.NewExtDataHook(p))
type ExtDataHook struct {
	plugin    *Plugin
	formatter logrus.Formatter
}

// HookOption is a functional option for configuring an ExtDataHook.
type HookOption func(*ExtDataHook)

// WithFormatter replaces the hook's entry formatter. The default is a
// timestamp-free text formatter.
func WithFormatter(f logrus.Formatter) HookOption {
	return func(h *ExtDataHook) {
		h.formatter = f
	}
}

// NewExtDataHook creates a hook bound to the given plugin.
func NewExtDataHook(p *Plugin, opts ...HookOption) *ExtDataHook {
	h := &ExtDataHook{
		plugin: p,
		formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Levels reports that the hook fires for every log level; level
// filtering belongs to the logger.
func (h *ExtDataHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire formats the entry and appends it to the plugin's extended data.
func (h *ExtDataHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.plugin.AddExtData(strings.TrimRight(string(line), "\n"))
	return nil
}
