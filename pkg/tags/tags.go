// Package tags is the table of tag-specific chain steps.
//
// Each Tag names the element it locates and the method names its find-one and
// find-many steps carry in descriptions and recordings ("span"/"spans",
// "link"/"links" for anchors).
package tags

import (
	"fmt"
	"sort"
	"sync"
)

// Tag configures a tag-specific chain step.
type Tag struct {
	Name     string
	Singular string
	Plural   string
}

func (t Tag) String() string {
	return t.Name
}

// Method returns the step name for the given multiplicity.
func (t Tag) Method(many bool) string {
	if many {
		return t.Plural
	}
	return t.Singular
}

var (
	Span     = define("span")
	Div      = define("div")
	TextArea = define("textarea")
	Input    = define("input")
	Button   = define("button")
	Link     = defineAs("a", "link", "links")
	Select   = define("select")
	Option   = define("option")
	Form     = define("form")
	Label    = define("label")
	Img      = define("img")
	P        = define("p")
	Pre      = define("pre")
	Li       = define("li")
	Ul       = define("ul")
	Ol       = define("ol")
	Dl       = define("dl")
	Dt       = define("dt")
	Dd       = define("dd")
	Table    = define("table")
	Tr       = define("tr")
	Th       = define("th")
	Td       = define("td")
	Fieldset = define("fieldset")
	Legend   = define("legend")
	H1       = define("h1")
	H2       = define("h2")
	H3       = define("h3")
	H4       = define("h4")
	H5       = define("h5")
	H6       = define("h6")
	Map      = define("map")
	Abbr     = define("abbr")
	Acronym  = define("acronym")
)

var (
	mu       sync.RWMutex
	byMethod map[string]entry
)

type entry struct {
	tag  Tag
	many bool
}

func define(name string) Tag {
	return defineAs(name, name, name+"s")
}

func defineAs(name, singular, plural string) Tag {
	t := Tag{Name: name, Singular: singular, Plural: plural}
	if err := Register(t); err != nil {
		panic(err)
	}
	return t
}

// Register adds a tag to the lookup table.
// It fails if either method name is already taken by another tag.
func Register(t Tag) error {
	if t.Name == "" || t.Singular == "" || t.Plural == "" || t.Singular == t.Plural {
		return fmt.Errorf("tag %q needs a name and two distinct method names", t.Name)
	}
	mu.Lock()
	defer mu.Unlock()
	if byMethod == nil {
		byMethod = make(map[string]entry)
	}
	for _, m := range []string{t.Singular, t.Plural} {
		if existing, ok := byMethod[m]; ok && existing.tag != t {
			return fmt.Errorf("method %q already registered for tag %q", m, existing.tag.Name)
		}
	}
	byMethod[t.Singular] = entry{tag: t}
	byMethod[t.Plural] = entry{tag: t, many: true}
	return nil
}

// Lookup resolves a step method name back to its tag and multiplicity.
func Lookup(method string) (t Tag, many bool, ok bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := byMethod[method]
	return e.tag, e.many, ok
}

// All returns every registered tag, sorted by name.
func All() []Tag {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Tag, 0, len(byMethod)/2)
	for _, e := range byMethod {
		if !e.many {
			out = append(out, e.tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
