// Package validation checks generated documents against structural rules.
//
// Two validators are provided:
//
//   - ValidateField walks a FieldValidator tree. Schema models produce these
//     trees alongside their type descriptors, so every generated value can be
//     checked against the constraints of the node that produced it.
//   - SchemaValidator compiles a JSON Schema (draft 2020-12) document and
//     validates instances with github.com/santhosh-tekuri/jsonschema/v5.
//
// Both report a *Result holding one FieldError per failure. Paths use a
// JSONPath-like notation rooted at "$":
//
//	result := validation.ValidateField(validation.RootPath, doc, model.Field)
//	if !result.Valid {
//	    for _, e := range result.Errors {
//	        log.Printf("%s: %s (%s)", e.Path, e.Message, e.Code)
//	    }
//	}
//
// Custom string formats can be registered with RegisterFormat.
package validation
