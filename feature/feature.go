package feature

import (
	"fmt"
	"strings"
)

/*
Metadata describes a table of training data: the names of the columns
used as features, in order, and the name of the binary label column.
*/
type Metadata struct {
	Features []string
	Label    string
}

/*
Validate returns an error if the metadata is nil, has no label, has an empty or
repeated feature name or uses the label as a feature.
*/
func (md *Metadata) Validate() error {
	if md == nil {
		return fmt.Errorf("no metadata")
	}
	if strings.TrimSpace(md.Label) == "" {
		return fmt.Errorf("metadata has no label")
	}
	seen := make(map[string]bool, len(md.Features))
	for _, f := range md.Features {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("metadata has a feature with an empty name")
		}
		if f == md.Label {
			return fmt.Errorf("label %q cannot be used as a feature", f)
		}
		if seen[f] {
			return fmt.Errorf("feature %q is declared more than once", f)
		}
		seen[f] = true
	}
	return nil
}

/*
Columns returns the feature names followed by the label name, the column
order of a dataset described by the metadata.
*/
func (md *Metadata) Columns() []string {
	columns := make([]string, 0, len(md.Features)+1)
	columns = append(columns, md.Features...)
	return append(columns, md.Label)
}
