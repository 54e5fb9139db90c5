// Package eeplugin orchestrates the extreme-event detection pipeline: it
// negotiates the scalars it needs from the host, builds the HEALPix
// coarsening mapping once at setup, loads the configured detectors that
// the host can actually satisfy, and drives them once per model step,
// turning fired cells into polygons and polygons into notifications.
package eeplugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/ecmwf-labs/extreme-events/config"
	"github.com/ecmwf-labs/extreme-events/ee"
	"github.com/ecmwf-labs/extreme-events/grid"
	"github.com/ecmwf-labs/extreme-events/healpix"
	"github.com/ecmwf-labs/extreme-events/polygon"
	"github.com/ecmwf-labs/extreme-events/registry"

	// Importing the built-in detectors for their side-effecting init()
	// registration is what makes them available to the registry; see
	// package registry's self-registration convention.
	_ "github.com/ecmwf-labs/extreme-events/detectors"
)

// Protocol is what the plugin declares it needs from the host at
// negotiation time.
type Protocol struct {
	RequiredScalars []string
}

// Sender is the subset of notify.Sink the orchestrator depends on, kept
// narrow so tests can substitute a recording stub.
type Sender interface {
	Send(ctx context.Context, payload string, polygon []geom.Point) (int, error)
}

type activeDetector struct {
	name string
	det  registry.Detector
}

// Plugin is the extreme-event detection orchestrator. Construct with New,
// then call Setup once and Run once per model step.
type Plugin struct {
	cfg            *config.PluginConfig
	sink           Sender
	log            logrus.FieldLogger
	notifyTimeout  time.Duration
	md             grid.ModelData
	mapping        *healpix.Mapping
	active         []activeDetector
}

// Option configures optional Plugin behaviour.
type Option func(*Plugin)

// WithLogger overrides the default logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Plugin) { p.log = l }
}

// WithNotifyTimeout bounds how long a single notification POST may block.
func WithNotifyTimeout(d time.Duration) Option {
	return func(p *Plugin) { p.notifyTimeout = d }
}

// New constructs a Plugin from its configuration and notification sink.
func New(cfg *config.PluginConfig, sink Sender, opts ...Option) *Plugin {
	p := &Plugin{
		cfg:           cfg,
		sink:          sink,
		log:           logrus.StandardLogger(),
		notifyTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Negotiate declares the scalar parameters the plugin requires from the
// host before Setup is called.
func (p *Plugin) Negotiate() Protocol {
	return Protocol{RequiredScalars: []string{"NSTEP", "TSTEP", "NFLEVG"}}
}

// Setup builds the HEALPix mapping from the host's function space and
// constructs every configured, enabled detector whose required inputs the
// host currently offers; events whose inputs are not offered are logged
// and skipped. Detectors that reference an unregistered name panic with a
// *ee.RegistryMiss, matching the source's hard assertion on an unknown
// event type; any other construction error is logged and returned.
func (p *Plugin) Setup(md grid.ModelData) error {
	p.md = md
	p.mapping = healpix.Build(p.cfg.HealpixRes, md.FunctionSpace())

	for _, ec := range p.cfg.Events {
		if !ec.Enabled {
			continue
		}
		if missing := firstMissing(md, ec); missing != "" {
			p.log.WithField("event", ec.Name).Warnf("skipping event: required input %q is not offered by the host", missing)
			continue
		}

		regCfg := registry.Config{
			Name:           ec.Name,
			RequiredParams: ec.ScalarNames(),
			RequiredFields: ec.FieldNames(),
			Raw:            ec.Raw,
		}
		det, err := registry.Create(regCfg, md, p.mapping)
		if err != nil {
			var miss *ee.RegistryMiss
			if errors.As(err, &miss) {
				panic(err)
			}
			p.log.WithError(err).WithField("event", ec.Name).Error("failed to construct detector")
			return fmt.Errorf("constructing detector %q: %w", ec.Name, err)
		}
		p.active = append(p.active, activeDetector{name: ec.Name, det: det})
	}

	if len(p.active) == 0 {
		p.log.Error("no extreme-event detectors were loaded")
	}
	return nil
}

func firstMissing(md grid.ModelData, ec config.EventConfig) string {
	for _, name := range ec.FieldNames() {
		if !md.HasParameter(name) {
			return name
		}
	}
	for _, name := range ec.ScalarNames() {
		if !md.HasParameter(name) {
			return name
		}
	}
	return ""
}

// Run is called once per model step: it runs every active detector,
// converts each non-empty fired-cell set into polygons, and dispatches
// one notification per polygon.
func (p *Plugin) Run() error {
	nstep, _ := p.md.GetInt("NSTEP")
	tstep, _ := p.md.GetDouble("TSTEP")
	step := stepString(nstep, tstep)

	for _, ad := range p.active {
		for _, dd := range ad.det.Detect(p.md) {
			if len(dd.DetectedCells) == 0 {
				continue
			}
			cells := make([]int, 0, len(dd.DetectedCells))
			for c := range dd.DetectedCells {
				cells = append(cells, c)
			}
			polys := polygon.Extract(cells, p.mapping.CellVertices, p.log)
			for _, poly := range polys {
				p.notify(step, dd, poly[0])
			}
		}
	}
	return nil
}

func (p *Plugin) notify(step string, dd registry.DetectionData, ring []geom.Point) {
	if !p.cfg.EnableNotification {
		return
	}
	payload, err := json.Marshal(struct {
		Step        string `json:"step"`
		Description string `json:"description"`
		Param       string `json:"param"`
		Levtype     string `json:"levtype"`
		Levelist    string `json:"levelist"`
	}{step, dd.Description, dd.Param, dd.Levtype, dd.Levelist})
	if err != nil {
		p.log.WithError(err).Error("failed to encode notification payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.notifyTimeout)
	defer cancel()
	if _, err := p.sink.Send(ctx, string(payload), ring); err != nil {
		p.log.WithError(err).Error("notification send failed")
	}
}

// Teardown drops detector state. It is safe to call more than once.
func (p *Plugin) Teardown() {
	p.active = nil
}

// stepString formats the internal simulation step as a short duration
// string: "0s" at the first step, otherwise the largest whole unit among
// days/hours/minutes that evenly divides the elapsed seconds, falling
// back to a plain second count.
func stepString(nstep int, tstep float64) string {
	if nstep == 0 {
		return "0s"
	}
	seconds := int64(roundToNearest(float64(nstep) * tstep))
	for _, u := range []struct {
		size  int64
		label string
	}{
		{86400, "d"}, {3600, "h"}, {60, "m"},
	} {
		if seconds%u.size == 0 {
			return fmt.Sprintf("%d%s", seconds/u.size, u.label)
		}
	}
	return fmt.Sprintf("%ds", seconds)
}

func roundToNearest(f float64) float64 {
	if f < 0 {
		return float64(int64(f - 0.5))
	}
	return float64(int64(f + 0.5))
}
