package policy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// tableFile is the on-disk shape of an external route table:
//
//	routes:
//	  - path: /
//	    view: dashboard
//	    roles: [doctor, staff]
type tableFile struct {
	Routes []RoutePolicy `yaml:"routes"`
}

// LoadTable decodes a YAML route table. Unknown keys are rejected so a typo
// cannot silently open a route to every role.
func LoadTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f tableFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty route table", domain.ErrInvalidPolicy)
		}
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrInvalidPolicy, err)
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("%w: no routes declared", domain.ErrInvalidPolicy)
	}
	return NewTable(f.Routes)
}

// LoadTableFile reads a YAML route table from path. An empty path yields the
// built-in table.
func LoadTableFile(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open route table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}
