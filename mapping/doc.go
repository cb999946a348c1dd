// Package mapping parses the field-mapping document and binds it to a
// normalized API description.
//
// A mapping document declares directory object classes and, for each one,
// the backend schema it stands for and how its attributes map to schema
// fields:
//
//	objectClasses:
//	  Items:
//	    ldapName: item
//	    openApiSchemaRef: '#/components/schemas/Item'
//	    apiEndpoint: /items
//	    attributes:
//	      - ldapName: cn
//	        openApiPropertyName: name
//	        apiQueryParam: name
//	        queryOperators: [eq, substring]
//
// [Parse] validates the document against an embedded JSON Schema before
// anything is bound. [Resolve] then binds every attribute to a schema node,
// settles the primary key and builds the DN template:
//
//	doc, err := mapping.LoadFile("mapping.yaml")
//	if err != nil {
//	    return err // *cgerrors.MappingError
//	}
//	result, err := mapping.Resolve(doc, graph)
//
// Object classes keep their declaration order in both the object and the
// array form of objectClasses. Each resolved [ObjectClass] implements
// [filter.Bindings].
package mapping
