package symbols

import (
	_ "embed"
	"fmt"

	"contractfix/internal/extractor"

	"gopkg.in/yaml.v3"
)

//go:embed exceptions.yaml
var exceptionsYAML []byte

type catalogParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type catalogType struct {
	Name         string           `yaml:"name"`
	Namespace    string           `yaml:"namespace"`
	Base         string           `yaml:"base"`
	Constructors [][]catalogParam `yaml:"constructors"`
}

type catalogFile struct {
	Exceptions []catalogType `yaml:"exceptions"`
}

// loadCatalog builds type definitions for the framework exceptions.
func loadCatalog(data []byte) ([]*TypeDef, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse exception catalog: %w", err)
	}

	defs := make([]*TypeDef, 0, len(file.Exceptions))
	for _, ct := range file.Exceptions {
		if ct.Name == "" {
			return nil, fmt.Errorf("exception catalog entry without a name")
		}
		def := &TypeDef{
			Key:       extractor.TypeKey(ct.Namespace, ct.Name),
			Name:      ct.Name,
			Namespace: ct.Namespace,
			Qualified: ct.Name,
			Kind:      KindClass,
			Modifiers: []string{"public"},
			External:  true,
		}
		if ct.Base != "" {
			def.Bases = []extractor.TypeRef{extractor.ParseTypeRefString(ct.Base)}
		}
		for _, params := range ct.Constructors {
			md := &MethodDef{Owner: def, Name: ct.Name, Modifiers: []string{"public"}, Constructor: true}
			for _, p := range params {
				md.Params = append(md.Params, extractor.Param{Name: p.Name, Type: extractor.ParseTypeRefString(p.Type)})
			}
			md.index = len(def.Ctors)
			def.Ctors = append(def.Ctors, md)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
