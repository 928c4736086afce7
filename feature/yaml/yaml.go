/*
Package yaml provides methods to parse feature.Metadata descriptions
from YAML documents.
*/
package yaml

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pbanos/sprout/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadMetadata takes a slice of bytes with a metadata description in YAML and
returns the feature.Metadata parsed from it or an error.
The YML is expected to be an object containing a features property with the
list of feature column names, in order, and a label property with the name of
the label column.

	features:
	  - X1
	  - X2
	label: Y
*/
func ReadMetadata(md []byte) (*feature.Metadata, error) {
	doc := struct {
		Features []string `yaml:"features"`
		Label    string   `yaml:"label"`
	}{}
	err := yaml.Unmarshal(md, &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	if doc.Features == nil {
		return nil, fmt.Errorf("metadata has no feature information")
	}
	metadata := &feature.Metadata{Features: doc.Features, Label: doc.Label}
	if err = metadata.Validate(); err != nil {
		return nil, err
	}
	return metadata, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the metadata or an error.
*/
func ReadMetadataFromFile(filepath string) (*feature.Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return metadata, err
}

// WriteMetadata writes the given metadata as YML to w
func WriteMetadata(w io.Writer, md *feature.Metadata) error {
	doc := struct {
		Features []string `yaml:"features"`
		Label    string   `yaml:"label"`
	}{md.Features, md.Label}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing metadata as yml: %v", err)
	}
	_, err = w.Write(b)
	return err
}
