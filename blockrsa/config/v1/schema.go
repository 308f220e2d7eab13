package v1

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema"
)

type schemaElement struct {
	name   string
	schema string
}

type schemaHierarchy struct {
	schemas    []schemaElement
	mainSchema string
}

//go:embed integer.json
var integerSchemaString string

//go:embed format.json
var formatSchemaString string

//go:embed parameters.json
var parametersSchemaString string

//go:embed parameters-example.yaml
var parametersExample string

// it's important that the dependencies are added first,
// and the schemas that depend on them after that
var schemas []schemaElement = []schemaElement{
	{"integer.json", integerSchemaString},
	{"format.json", formatSchemaString},
	{"parameters.json", parametersSchemaString},
}

func compileSchema(hierarchy *schemaHierarchy) (*jsonschema.Schema, error) {
	if hierarchy == nil {
		return nil, errors.New("schema: hierarchy must not be nil")
	}

	compiler := jsonschema.NewCompiler()
	for _, element := range hierarchy.schemas {
		err := compiler.AddResource(element.name, strings.NewReader(element.schema))
		if err != nil {
			return nil, fmt.Errorf("schema: error adding schema %v: %v",
				element.name, err)
		}
	}

	compiledSchema, err := compiler.Compile(hierarchy.mainSchema)
	if err != nil {
		return nil, fmt.Errorf("schema: error compiling schema %v: %v",
			hierarchy.mainSchema, err)
	}

	return compiledSchema, nil
}

var parametersSchema *jsonschema.Schema

func init() {
	var err error
	parametersSchema, err = compileSchema(&schemaHierarchy{schemas, "parameters.json"})
	if err != nil {
		panic(err)
	}
}
