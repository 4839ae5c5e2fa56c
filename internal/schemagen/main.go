package main

import (
	"flag"
	"log"
	"os"

	"github.com/cfdirect/cfdirect/api/v1beta1/configs"
	"github.com/cfdirect/cfdirect/pkg/yaml"
)

var (
	outFile  = flag.String("o", "schema.json", "Output file for the generated schema")
	schemaID = flag.String("id", "https://cfdirect.dev/configs.v1beta1.json", "Value of the schema $id")
)

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(configs.New(), *schemaID)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	// Write schema.json file.
	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
