package tools

// Translate converts MCP tool descriptors into function declarations.
//
// The projection is lossy on purpose: per property only type, description
// and enum survive; everything else (title, format, presentation hints) is
// dropped. A property that carries none of the supported keys stays in the
// output as an empty object so the model still sees its name.
//
// Translate is pure and total. Missing or malformed schemas degrade to
// permissive empty declarations, output order matches input order, and
// duplicate tool names pass through untouched (deduplication is the caller's
// responsibility).
func Translate(descs []ToolDescriptor) []FunctionDeclaration {
	decls := make([]FunctionDeclaration, 0, len(descs))

	for _, desc := range descs {
		decl := FunctionDeclaration{
			Name:        desc.Name,
			Description: desc.Description,
			Parameters: Parameters{
				Type:       "object",
				Properties: map[string]Property{},
				Required:   []string{},
			},
		}

		if schema := desc.InputSchema; schema != nil {
			for name, prop := range schema.Properties {
				decl.Parameters.Properties[name] = cleanProperty(prop)
			}
			decl.Parameters.Required = append(decl.Parameters.Required, schema.Required...)
		}

		decls = append(decls, decl)
	}

	return decls
}

// cleanProperty projects a schema node onto the supported property keys.
func cleanProperty(node *SchemaNode) Property {
	if node == nil {
		return Property{}
	}

	return Property{
		Type:        node.Type,
		Description: node.Description,
		Enum:        append([]string(nil), node.Enum...),
	}
}
