// Package loader reads schema declarations from JSON and YAML files and
// from the components section of OpenAPI 3 documents.
//
// YAML documents are normalised to the shape encoding/json produces, so a
// declaration behaves the same whichever format it was written in.
package loader
