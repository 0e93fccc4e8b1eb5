// Package script reads chains written as YAML step lists and applies them to a ports.Chain.
//
//	steps:
//	  - do: span
//	    by: {xpath: "@foo = 'bar'"}
//	  - do: sendKeys
//	    args: [hello]
//	  - do: text
//
// A step's "do" is a tag method (span, spans, link), element, elements, an
// action (click, clearField, submit, sendKeys) or a read (tagName, text,
// attribute, cssValue, location, size, isSelected, isEnabled, isDisplayed).
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
	"gopkg.in/yaml.v3"
)

// Script is the document root.
type Script struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one chain call.
type Step struct {
	Do   string   `yaml:"do" json:"do"`
	By   Locator  `yaml:"by,omitempty" json:"by,omitempty"`
	Last bool     `yaml:"last,omitempty" json:"last,omitempty"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// Locator sets exactly one strategy, or an attribute with an optional value.
type Locator struct {
	TagName         string `yaml:"tagName,omitempty" json:"tagName,omitempty"`
	ID              string `yaml:"id,omitempty" json:"id,omitempty"`
	Name            string `yaml:"name,omitempty" json:"name,omitempty"`
	ClassName       string `yaml:"className,omitempty" json:"className,omitempty"`
	CSS             string `yaml:"css,omitempty" json:"css,omitempty"`
	XPath           string `yaml:"xpath,omitempty" json:"xpath,omitempty"`
	LinkText        string `yaml:"linkText,omitempty" json:"linkText,omitempty"`
	PartialLinkText string `yaml:"partialLinkText,omitempty" json:"partialLinkText,omitempty"`
	Attribute       string `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Value           string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Result is the value produced by a read step.
type Result struct {
	Step  string `json:"step"`
	Value string `json:"value"`
}

type kind int

const (
	kindLocate kind = iota + 1
	kindAct
	kindRead
)

var (
	actions = map[string]func(ports.Chain, Step) ports.Chain{
		"click":      func(c ports.Chain, _ Step) ports.Chain { return c.Click() },
		"clearField": func(c ports.Chain, _ Step) ports.Chain { return c.ClearField() },
		"submit":     func(c ports.Chain, _ Step) ports.Chain { return c.Submit() },
		"sendKeys":   func(c ports.Chain, s Step) ports.Chain { return c.SendKeys(s.Args...) },
	}

	reads = map[string]func(ports.Chain, Step) (any, error){
		"tagName":     func(c ports.Chain, _ Step) (any, error) { return c.TagName() },
		"text":        func(c ports.Chain, _ Step) (any, error) { return c.Text() },
		"attribute":   func(c ports.Chain, s Step) (any, error) { return c.Attribute(arg(s)) },
		"cssValue":    func(c ports.Chain, s Step) (any, error) { return c.CSSValue(arg(s)) },
		"location":    func(c ports.Chain, _ Step) (any, error) { return c.Location() },
		"size":        func(c ports.Chain, _ Step) (any, error) { return c.Size() },
		"isSelected":  func(c ports.Chain, _ Step) (any, error) { return c.IsSelected() },
		"isEnabled":   func(c ports.Chain, _ Step) (any, error) { return c.IsEnabled() },
		"isDisplayed": func(c ports.Chain, _ Step) (any, error) { return c.IsDisplayed() },
	}
)

// Parse decodes a YAML (or JSON) script and checks every step.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if _, err := classify(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if _, err := step.By.build(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Run applies steps to chain in order and collects the values of read steps.
// It stops at the first failing step.
func Run(chain ports.Chain, steps []Step) ([]Result, error) {
	var results []Result
	for i, step := range steps {
		k, err := classify(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		switch k {
		case kindRead:
			v, err := reads[step.Do](chain, step)
			if err != nil {
				return results, err
			}
			results = append(results, Result{Step: step.String(), Value: fmt.Sprint(v)})
			continue
		case kindAct:
			chain = actions[step.Do](chain, step)
		case kindLocate:
			chain, err = locate(chain, step)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if err := chain.Err(); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Split separates leading chain steps from trailing reads, which is the shape a
// recorded script needs: reads cannot run until playback.
func Split(steps []Step) (chain, trailing []Step, err error) {
	cut := len(steps)
	for cut > 0 {
		k, err := classify(steps[cut-1])
		if err != nil {
			return nil, nil, err
		}
		if k != kindRead {
			break
		}
		cut--
	}
	for i, step := range steps[:cut] {
		if k, _ := classify(step); k == kindRead {
			return nil, nil, fmt.Errorf("step %d: %s reads a value before the last chain step: %w", i+1, step.Do, domain.ErrUnsupportedOperation)
		}
	}
	return steps[:cut], steps[cut:], nil
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Do
	}
	return s.Do + "(" + strings.Join(s.Args, ", ") + ")"
}

func classify(step Step) (kind, error) {
	if _, ok := actions[step.Do]; ok {
		return kindAct, nil
	}
	if _, ok := reads[step.Do]; ok {
		if (step.Do == "attribute" || step.Do == "cssValue") && len(step.Args) != 1 {
			return 0, fmt.Errorf("%s takes exactly one argument: %w", step.Do, domain.ErrInvalidArgument)
		}
		return kindRead, nil
	}
	if step.Do == "element" || step.Do == "elements" {
		return kindLocate, nil
	}
	if _, _, ok := tags.Lookup(step.Do); ok {
		return kindLocate, nil
	}
	return 0, fmt.Errorf("unknown step %q: %w", step.Do, domain.ErrInvalidArgument)
}

func locate(chain ports.Chain, step Step) (ports.Chain, error) {
	locator, err := step.By.build()
	if err != nil {
		return nil, err
	}
	if step.Last {
		if locator.IsZero() {
			locator = by.LastAny()
		} else if locator, err = by.Last(locator); err != nil {
			return nil, err
		}
	}

	var refine []by.By
	if !locator.IsZero() {
		refine = append(refine, locator)
	}
	switch step.Do {
	case "element":
		return chain.Element(locator), nil
	case "elements":
		return chain.Elements(locator), nil
	}
	tag, many, _ := tags.Lookup(step.Do)
	if many {
		return chain.FindAll(tag, refine...), nil
	}
	return chain.Find(tag, refine...), nil
}

func (l Locator) build() (by.By, error) {
	if l.Attribute != "" {
		if l.Value != "" {
			return by.AttributeValue(l.Attribute, l.Value)
		}
		return by.Attribute(l.Attribute)
	}

	var set []by.By
	add := func(v string, ctor func(string) by.By) {
		if v != "" {
			set = append(set, ctor(v))
		}
	}
	add(l.TagName, by.TagName)
	add(l.ID, by.ID)
	add(l.Name, by.Name)
	add(l.ClassName, by.ClassName)
	add(l.CSS, by.CSS)
	add(l.XPath, by.XPath)
	add(l.LinkText, by.LinkText)
	add(l.PartialLinkText, by.PartialLinkText)

	switch len(set) {
	case 0:
		return by.By{}, nil
	case 1:
		return set[0], nil
	}
	return by.By{}, fmt.Errorf("a locator sets exactly one strategy: %w", domain.ErrInvalidArgument)
}

func arg(s Step) string {
	if len(s.Args) == 0 {
		return ""
	}
	return s.Args[0]
}
