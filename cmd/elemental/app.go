package main

import (
	"fmt"

	"github.com/pthm/elemental"
	"github.com/pthm/elemental/dom"
	"github.com/pthm/elemental/examples/demo"
	"go.uber.org/zap"
)

// app builds showcase documents from a configuration.
type app struct {
	cfg     Config
	log     *zap.Logger
	metrics *elemental.Metrics
	codec   elemental.Codec
}

func newApp(cfg Config, log *zap.Logger, metrics *elemental.Metrics) (*app, error) {
	a := &app{cfg: cfg, log: log, metrics: metrics}
	if cfg.StateKey != "" {
		codec, err := elemental.NewSignedCodec([]byte(cfg.StateKey))
		if err != nil {
			return nil, fmt.Errorf("state codec: %w", err)
		}
		a.codec = codec
	}
	return a, nil
}

// page builds a fresh document holding the demo components.
func (a *app) page() (*dom.Document, error) {
	var docOpts []dom.DocumentOption
	if !a.cfg.AdoptedStylesheets {
		docOpts = append(docOpts, dom.WithoutAdoptedStyleSheets())
	}
	doc := dom.NewDocument(docOpts...)

	prefix, err := elemental.NewPrefix(a.cfg.Prefix)
	if err != nil {
		return nil, err
	}
	opts := []elemental.RegistryOption{
		elemental.WithLogger(a.log),
		elemental.WithMetrics(a.metrics),
		elemental.WithDefaultPrefix(prefix),
	}
	if a.codec != nil {
		opts = append(opts, elemental.WithCodec(a.codec))
	}
	reg := elemental.NewRegistry(doc, opts...)

	if err := demo.Register(reg); err != nil {
		return nil, err
	}
	if err := demo.Populate(reg); err != nil {
		return nil, err
	}
	a.log.Debug("page built", zap.String("prefix", prefix.String()))
	return doc, nil
}
