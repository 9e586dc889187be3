// Package transform rewrites legacy eTemplate XML into web-component markup.
//
// The rewrite is an ordered chain of regular-expression passes over the raw
// template text. Passes run in a fixed order because later passes match the
// et2-* tags earlier ones produce; the last pass normalises the attributes of
// every web-component.
package transform

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Options carries per-template context into the passes.
type Options struct {
	// TemplateName is the requested file name, e.g. "index.xet".
	TemplateName string
}

// Pass is a single rewrite step.
type Pass struct {
	Name  string
	Apply func(src string, opts Options) (string, error)
}

// Pipeline runs passes in order.
type Pipeline struct {
	passes []Pass
}

// New returns the pipeline converting legacy eTemplates.
func New() *Pipeline {
	return NewWithPasses(DefaultPasses())
}

func NewWithPasses(passes []Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// DefaultPasses lists the rewrite passes. Everything before "boxes" runs
// regardless of an overlay marked legacy="true".
func DefaultPasses() []Pass {
	return []Pass{
		{Name: "single-quotes", Apply: replaceSingleQuotes},
		{Name: "menulist", Apply: replaceMenulist},
		{Name: "legacy-options", Apply: replaceLegacyOptions},
		{Name: "split", Apply: replaceSplit},
		{Name: "expose", Apply: replaceExposeView},
		{Name: "textarea", Apply: replaceMultiline},
		{Name: "number", Apply: replaceNumeric},
		{Name: "legacy-prefix", Apply: replaceLegacyPrefix},
		{Name: "link", Apply: replaceLink},
		{Name: "select", Apply: replaceSelect},
		{Name: "nextmatch-headers", Apply: replaceNextmatchHeaders},
		{Name: "passwd", Apply: replacePasswd},
		{Name: "button", Apply: replaceButtons},
		{Name: "date", Apply: replaceDates},
		{Name: "boxes", Apply: replaceBoxes},
		{Name: "attributes", Apply: rewriteAttributes},
	}
}

// PassNames returns the names of the passes in execution order.
func (p *Pipeline) PassNames() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	return names
}

// Run applies every pass to src.
func (p *Pipeline) Run(src string, opts Options) (string, error) {
	start := time.Now()
	for _, pass := range p.passes {
		out, err := pass.Apply(src, opts)
		if err != nil {
			return "", fmt.Errorf("pass %s: %w", pass.Name, err)
		}
		src = out
	}

	log.WithFields(log.Fields{
		"template":   opts.TemplateName,
		"passes":     len(p.passes),
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("template transformed")

	return src, nil
}
