package packing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
)

// Engine describes the behaviour required from a packing estimator.
type Engine interface {
	Estimate(sel Selection) (Estimate, error)
	Container() Container
	FillFactor() float64
}

// Option configures an engine built by New.
type Option func(*pipeline)

// WithFillFactor overrides DefaultFillFactor.
func WithFillFactor(f float64) Option {
	return func(p *pipeline) {
		p.fillFactor = f
	}
}

// WithLogger sets the logger used to report skipped selection entries.
func WithLogger(logger *zap.Logger) Option {
	return func(p *pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type pipeline struct {
	lookup     catalog.Lookup
	container  Container
	fillFactor float64
	logger     *zap.Logger
}

// New creates an Engine that runs the full estimate, flatten, pack and recommend pipeline.
func New(lookup catalog.Lookup, container Container, opts ...Option) (Engine, error) {
	p := &pipeline{
		lookup:     lookup,
		container:  container,
		fillFactor: DefaultFillFactor,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if lookup == nil {
		return nil, fmt.Errorf("packing engine needs a catalog lookup")
	}
	if err := validateContainer(container); err != nil {
		return nil, err
	}
	if !(p.fillFactor > 0 && p.fillFactor < 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidFillFactor, p.fillFactor)
	}
	p.logger = p.logger.Named("packing")

	return p, nil
}

func (p *pipeline) Container() Container { return p.container }

func (p *pipeline) FillFactor() float64 { return p.fillFactor }

// Estimate recomputes everything from scratch for sel.
func (p *pipeline) Estimate(sel Selection) (Estimate, error) {
	items, _, err := Flatten(sel, p.lookup)
	if err != nil {
		p.logger.Info("selection rejected", zap.Int("units", sel.Units()), zap.Error(err))
		return Estimate{}, err
	}
	total, warnings := EstimateVolume(sel, p.lookup)

	for _, w := range warnings {
		p.logger.Warn("selection entry skipped",
			zap.String("code", string(w.Code)),
			zap.String("item_id", w.ItemID),
		)
	}

	result, err := Pack(items, p.container)
	if err != nil {
		p.logger.Info("selection cannot be packed",
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		return Estimate{}, err
	}

	if warnings == nil {
		warnings = []Warning{}
	}

	return Estimate{
		TotalCubicFeet:   total,
		UnitsRecommended: RecommendUnits(total, p.container, p.fillFactor),
		FillFactor:       p.fillFactor,
		Container:        p.container,
		PackingResult:    result,
		Warnings:         warnings,
	}, nil
}
