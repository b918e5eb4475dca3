package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/code19m/errx"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Reserved record document keys.
const (
	docNameKey   = "name"
	docParentKey = "parent"
)

// Snapshot is the serialized form of a whole catalog. Loaders for every
// backing store produce one and Build turns it into a Repository.
type Snapshot struct {
	Datasets []DatasetDoc `yaml:"datasets" json:"datasets"`
}

// DatasetDoc is one dataset with its records grouped by endpoint name.
type DatasetDoc struct {
	Name        string                 `yaml:"name"        json:"name"`
	Description string                 `yaml:"description" json:"description"`
	Records     map[string][]RecordDoc `yaml:"records"     json:"records"`
}

// RecordDoc holds a record's local name, its attributes, and their
// "<attribute>Tier" annotations. Nested records carry a "parent" key naming
// the owning record.
type RecordDoc map[string]any

// ParseSnapshot decodes a snapshot. The format follows the file extension:
// .json is decoded as JSON, everything else as YAML.
func ParseSnapshot(name string, data []byte) (Snapshot, error) {
	var s Snapshot

	var err error
	if strings.EqualFold(filepath.Ext(name), ".json") {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return Snapshot{}, errx.New(
			fmt.Sprintf("decode snapshot: %v", err),
			errx.WithCode(CodeBadSnapshot),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"source": name}),
		)
	}

	return s, nil
}

// Marshal encodes the snapshot as YAML.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return data, nil
}

// Build validates the snapshot and assembles an immutable Repository.
func (s Snapshot) Build() (*Repository, error) {
	datasets := make([]*Dataset, 0, len(s.Datasets))

	for _, doc := range s.Datasets {
		ds, err := doc.build()
		if err != nil {
			return nil, errx.Wrap(err, errx.WithDetails(errx.D{"dataset": doc.Name}))
		}
		datasets = append(datasets, ds)
	}

	return NewRepository(datasets...)
}

func (doc DatasetDoc) build() (*Dataset, error) {
	if doc.Name == "" {
		return nil, badSnapshot("datasets", doc.Name, "dataset name is required")
	}

	for plural := range doc.Records {
		sc, ok := byEndpoint[plural]
		if !ok || sc.Plural != plural {
			return nil, badSnapshot(plural, doc.Name, "unknown record collection")
		}
	}

	ds := NewDataset(doc.Name, doc.Description)

	// registry order puts parents before nested schemas
	for _, sc := range registry {
		for _, rec := range doc.Records[sc.Plural] {
			name := cast.ToString(rec[docNameKey])
			parent := cast.ToString(rec[docParentKey])
			if sc.Parent == nil && parent != "" {
				return nil, badSnapshot(sc.Plural, name, "parent is only allowed on nested records")
			}

			attrs := lo.OmitByKeys(rec, []string{docNameKey, docParentKey})
			if _, err := ds.Add(sc, name, parent, attrs); err != nil {
				return nil, errx.Wrap(err)
			}
		}
	}

	return ds, nil
}
