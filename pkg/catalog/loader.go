package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/rigplanner/pkg/models"
)

//go:embed catalog.yaml
var catalogRawData []byte

// catalogFile is the top-level structure of a catalog document.
type catalogFile struct {
	Components []models.Component `yaml:"components" json:"components"`
	Prebuilts  []models.Prebuilt  `yaml:"prebuilts" json:"prebuilts"`
}

// Compile-time interface guard.
var _ Accessor = (*Catalog)(nil)

// Catalog provides lazy-loaded access to a parsed catalog document.
type Catalog struct {
	once      sync.Once
	load      func() ([]byte, string, error)
	items     []models.Component
	prebuilts []models.Prebuilt
	err       error
}

// NewCatalog creates a Catalog that parses the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{load: func() ([]byte, string, error) {
		return catalogRawData, "yaml", nil
	}}
}

// NewFileCatalog creates a Catalog backed by a YAML or JSON file on disk.
// The file is read on first access.
func NewFileCatalog(path string) *Catalog {
	return &Catalog{load: func() ([]byte, string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("catalog: read %q: %w", path, err)
		}
		format := "yaml"
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "json"
		}
		return data, format, nil
	}}
}

// NewCatalogFromBytes creates a Catalog from an in-memory document.
// format is "yaml" or "json".
func NewCatalogFromBytes(data []byte, format string) *Catalog {
	cp := bytes.Clone(data)
	return &Catalog{load: func() ([]byte, string, error) {
		return cp, format, nil
	}}
}

// All returns a copy of every component in catalog order.
func (c *Catalog) All(_ context.Context) ([]models.Component, error) {
	c.once.Do(c.parse)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]models.Component, len(c.items))
	copy(cp, c.items)
	return cp, nil
}

// ByType returns the components of one slot kind in catalog order.
func (c *Catalog) ByType(ctx context.Context, kind models.SlotKind) ([]models.Component, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSlot, kind)
	}
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return OfType(all, kind), nil
}

// Prebuilts returns a copy of the prebuilt series defined in the document.
func (c *Catalog) Prebuilts(_ context.Context) ([]models.Prebuilt, error) {
	c.once.Do(c.parse)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]models.Prebuilt, len(c.prebuilts))
	copy(cp, c.prebuilts)
	return cp, nil
}

// parse decodes and validates the catalog document.
func (c *Catalog) parse() {
	data, format, err := c.load()
	if err != nil {
		c.err = err
		return
	}

	f, err := Decode(data, format)
	if err != nil {
		c.err = err
		return
	}
	c.items = f.Components
	c.prebuilts = f.Prebuilts
}

// Document is a decoded and validated catalog document.
type Document struct {
	Components []models.Component `yaml:"components" json:"components"`
	Prebuilts  []models.Prebuilt  `yaml:"prebuilts,omitempty" json:"prebuilts,omitempty"`
}

// Encode renders doc in the given format ("json", "yaml" or "yml").
// Spec key order is preserved, so Decode(Encode(doc)) round-trips.
func Encode(doc *Document, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	case "yaml", "yml", "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("catalog: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("catalog: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("catalog: unsupported format %q", format)
	}
}

// Decode parses a YAML or JSON catalog document and validates every record.
func Decode(data []byte, format string) (*Document, error) {
	var f catalogFile
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("catalog: parse json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("catalog: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog: unsupported format %q", format)
	}

	if err := validate(f.Components); err != nil {
		return nil, err
	}
	return &Document{Components: f.Components, Prebuilts: f.Prebuilts}, nil
}

// validate enforces the record invariants the engine relies on.
func validate(items []models.Component) error {
	seen := make(map[string]bool, len(items))
	for i := range items {
		c := &items[i]
		if c.ID == "" {
			return fmt.Errorf("catalog: component %d has no id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("catalog: duplicate component id %q", c.ID)
		}
		seen[c.ID] = true

		kind, err := models.ParseSlotKind(string(c.Type))
		if err != nil {
			return fmt.Errorf("catalog: component %q: %w", c.ID, err)
		}
		c.Type = kind

		if c.Price < 0 {
			return fmt.Errorf("catalog: component %q has negative price", c.ID)
		}
		if c.StockCount < 0 {
			return fmt.Errorf("catalog: component %q has negative stock", c.ID)
		}
	}
	return nil
}
