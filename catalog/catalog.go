// Package catalog holds the class-meeting record model and its JSON store.
package catalog

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sort"
)

// Meeting is one weekly recurring time block within an inclusive date range.
// Times and dates are kept as the verbatim source strings ("10:00 am",
// "01/06/25") so the store reproduces the source data as given.
type Meeting struct {
	Days      []string `json:"Days"`
	StartTime string   `json:"Start Time"`
	EndTime   string   `json:"End Time"`
	StartDate string   `json:"Start Date"`
	EndDate   string   `json:"End Date"`
	Location  string   `json:"Location"`
}

// Module is one offered section of a course. It always carries at least
// one meeting; multi-meeting sections (e.g. lecture plus lab slot) get
// additional meetings appended in source order.
type Module struct {
	CRN      string    `json:"CRN"`
	Section  string    `json:"Section"`
	Type     string    `json:"Type"`
	Meetings []Meeting `json:"Meetings"`
}

// Catalog maps course codes (subject+number concatenated, e.g. "CS101")
// to their modules. Course order is tracked so flattening is deterministic.
type Catalog struct {
	codes   []string
	modules map[string][]*Module
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{modules: make(map[string][]*Module)}
}

// AddModule registers a module under the given course code, creating the
// course entry on first sight.
func (c *Catalog) AddModule(code string, m *Module) {
	if c.modules == nil {
		c.modules = make(map[string][]*Module)
	}
	if _, ok := c.modules[code]; !ok {
		c.codes = append(c.codes, code)
	}
	c.modules[code] = append(c.modules[code], m)
}

// Courses returns the course codes in catalog order.
func (c *Catalog) Courses() []string {
	return slices.Clone(c.codes)
}

// Modules returns the modules registered under a course code, in source order.
func (c *Catalog) Modules(code string) []*Module {
	return c.modules[code]
}

// Record is the flattened query-time view: one row per meeting, carrying
// the owning course code and the module fields next to the meeting's own.
type Record struct {
	Course  string
	CRN     string
	Section string
	Type    string
	Meeting
}

// Flatten returns a restartable sequence of flattened records in nested
// (course, module, meeting) order. Each call walks the catalog fresh.
func (c *Catalog) Flatten() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, code := range c.codes {
			for _, m := range c.modules[code] {
				for _, meeting := range m.Meetings {
					rec := Record{
						Course:  code,
						CRN:     m.CRN,
						Section: m.Section,
						Type:    m.Type,
						Meeting: meeting,
					}
					if !yield(rec) {
						return
					}
				}
			}
		}
	}
}

// MarshalJSON renders the catalog as a plain course-code → module-list
// mapping, the on-disk store format.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	if c.modules == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.modules)
}

// UnmarshalJSON reads the store format back. JSON objects carry no
// ordering, so course order is normalized to sorted course codes.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var modules map[string][]*Module
	if err := json.Unmarshal(data, &modules); err != nil {
		return err
	}
	codes := make([]string, 0, len(modules))
	for code := range modules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	c.codes = codes
	c.modules = modules
	return nil
}

// Load reads the JSON record store at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("error decoding database: %v", err)
	}
	return &cat, nil
}

// Save writes the whole store to path atomically (temp file + rename),
// replacing any previous store.
func (c *Catalog) Save(path string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".scout-db-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
