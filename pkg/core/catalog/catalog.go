package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

const (
	InvestigationTypes = "investigationTypes"
	Sites              = "sites"
	Timepoints         = "timepoints"
	Specimens          = "specimens"
	SpecNumbers        = "specNumbers"
	Materials          = "materials"
	SampleLevels       = "sampleLevels"
	SampleTypes        = "sampleTypes"
	Freezers           = "freezers"
	Shelves            = "shelves"
	Boxes              = "boxes"
	Positions          = "positions"
)

const (
	LevelOriginal   = "Original sample"
	LevelDerivative = "Derivative"
	LevelAliquot    = "Aliquot"
)

//go:embed catalog.yaml
var builtin []byte

// Catalog is the read-only reference data used by sample forms and strict
// validation. Returned slices and maps are copies.
type Catalog interface {
	Kinds() []string
	Values(kind string) ([]string, bool)
	Contains(kind, value string) bool
	All() map[string][]string
}

type catalog struct {
	kinds  []string
	values map[string][]string
	index  map[string]map[string]struct{}
}

// Default parses the embedded catalog. It panics on malformed data since the
// file ships with the binary.
func Default() Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return c
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(ctx context.Context, path string) (Catalog, error) {
	if path == "" {
		return Parse(builtin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "catalog loaded from %s, kinds: %d", path, len(c.Kinds()))
	return c, nil
}

func Parse(data []byte) (Catalog, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse catalog: no kinds defined")
	}

	c := &catalog{
		kinds:  make([]string, 0, len(raw)),
		values: make(map[string][]string, len(raw)),
		index:  make(map[string]map[string]struct{}, len(raw)),
	}
	for kind, vals := range raw {
		kind = strings.TrimSpace(kind)
		if kind == "" {
			return nil, fmt.Errorf("parse catalog: empty kind name")
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		c.kinds = append(c.kinds, kind)
		c.values[kind] = slices.Clone(vals)
		c.index[kind] = set
	}
	sort.Strings(c.kinds)
	return c, nil
}

func (c *catalog) Kinds() []string {
	return slices.Clone(c.kinds)
}

func (c *catalog) Values(kind string) ([]string, bool) {
	vals, ok := c.values[kind]
	if !ok {
		return nil, false
	}
	return slices.Clone(vals), true
}

func (c *catalog) Contains(kind, value string) bool {
	_, ok := c.index[kind][value]
	return ok
}

func (c *catalog) All() map[string][]string {
	res := make(map[string][]string, len(c.values))
	for k, v := range c.values {
		res[k] = slices.Clone(v)
	}
	return res
}
