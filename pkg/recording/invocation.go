package recording

import (
	"github.com/rodrigues2k/fluent-selenium/internal/runtime"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
)

// Op identifies the chain method an Invocation replays.
type Op int

const (
	OpFind Op = iota + 1
	OpFindAll
	OpElement
	OpElements
	OpClick
	OpClearField
	OpSubmit
	OpSendKeys
	OpAssert
)

var opNames = map[Op]string{
	OpFind:       "find",
	OpFindAll:    "findAll",
	OpElement:    "element",
	OpElements:   "elements",
	OpClick:      "click",
	OpClearField: "clearField",
	OpSubmit:     "submit",
	OpSendKeys:   "sendKeys",
	OpAssert:     "assert",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Invocation is one recorded chain step. It is never mutated once appended.
type Invocation struct {
	// Target is the placeholder the step was called on.
	Target string
	// Result is the placeholder the step returned. Act steps return their target.
	Result string
	Op     Op
	// Method is the name the step reports in error messages, e.g. "span" or "spans".
	Method  string
	Tag     tags.Tag
	Locator by.By
	// Keys holds SendKeys arguments.
	Keys []string
	// Description and Check belong to Assert.
	Description string
	Check       ports.Check
}

// String renders the step the way its error message would name it.
func (inv Invocation) String() string {
	switch inv.Op {
	case OpFind, OpFindAll, OpElement, OpElements:
		return runtime.Describe(inv.Target, inv.Method, inv.Locator)
	case OpSendKeys:
		args := make([]any, len(inv.Keys))
		for i, k := range inv.Keys {
			args[i] = k
		}
		return runtime.Describe(inv.Target, inv.Method, args...)
	case OpAssert:
		return runtime.Describe(inv.Target, inv.Method, inv.Description)
	}
	return runtime.Describe(inv.Target, inv.Method)
}

// locates reports whether the step produces a new element set.
func (inv Invocation) locates() bool {
	switch inv.Op {
	case OpFind, OpFindAll, OpElement, OpElements:
		return true
	}
	return false
}
