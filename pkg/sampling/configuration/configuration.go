// Package configuration holds sampled variants and their CSV form.
package configuration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure"
)

// Configuration assigns a boolean value to a set of named options.
// It is filled in by its producer and must not be modified once handed
// to a consumer.
type Configuration struct {
	options map[string]bool
}

func New() *Configuration {
	return &Configuration{options: make(map[string]bool)}
}

func (c *Configuration) clone() *Configuration {
	o := &Configuration{options: make(map[string]bool, len(c.options))}
	for name, value := range c.options {
		o.options[name] = value
	}
	return o
}

// SetOption sets the value of name, replacing any previous value.
func (c *Configuration) SetOption(name string, value bool) {
	c.options[name] = value
}

// OptionValue returns the value of name and whether it is set at all.
func (c *Configuration) OptionValue(name string) (value, ok bool) {
	value, ok = c.options[name]
	return
}

// Names returns the names of all set options in lexical order.
func (c *Configuration) Names() []string {
	names := make([]string, 0, len(c.options))
	for name := range c.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Configuration) Len() int {
	return len(c.options)
}

// Equal reports whether c and o set the same options to the same
// values.
func (c *Configuration) Equal(o *Configuration) bool {
	if len(c.options) != len(o.options) {
		return false
	}
	for name, value := range c.options {
		if v, ok := o.options[name]; !ok || v != value {
			return false
		}
	}
	return true
}

// Hash returns a hash of the options that does not depend on the
// order they were set in. Equal configurations have equal hashes.
func (c *Configuration) Hash() uint64 {
	h, err := hashstructure.Hash(c.options, nil)
	if err != nil {
		// a map of strings to bools is always hashable
		panic(err)
	}
	return h
}

// String lists the options sorted by name, one "name: value" per line.
func (c *Configuration) String() string {
	var b strings.Builder
	for i, name := range c.Names() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %t", name, c.options[name])
	}
	return b.String()
}

// Set is an insertion-ordered collection of distinct configurations.
// It holds its own copies, so callers may modify what they pass to Add
// or get back from List.
type Set struct {
	inorder []*Configuration
	buckets map[uint64][]*Configuration
}

func NewSet() *Set {
	return &Set{buckets: make(map[uint64][]*Configuration)}
}

// Add appends c unless an equal configuration is already present. It
// reports whether c was added.
func (s *Set) Add(c *Configuration) bool {
	h := c.Hash()
	for _, existing := range s.buckets[h] {
		if existing.Equal(c) {
			return false
		}
	}
	c = c.clone()
	s.buckets[h] = append(s.buckets[h], c)
	s.inorder = append(s.inorder, c)
	return true
}

func (s *Set) Len() int {
	return len(s.inorder)
}

// List returns copies of the configurations in the order they were
// added.
func (s *Set) List() []*Configuration {
	result := make([]*Configuration, len(s.inorder))
	for i, c := range s.inorder {
		result[i] = c.clone()
	}
	return result
}
