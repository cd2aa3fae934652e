package openapi

// NewComponents returns components pre-populated with the error responses
// every domain handler can produce.
func NewComponents() *Components {
	errorBody := map[string]*MediaType{
		"application/json": {Schema: &Schema{
			Type:       "object",
			Properties: map[string]*Schema{"error": {Type: "string"}},
		}},
	}

	return &Components{
		Schemas: make(map[string]*Schema),
		Responses: map[string]*Response{
			"BadRequest":  {Description: "Invalid request", Content: errorBody},
			"NotFound":    {Description: "Resource not found", Content: errorBody},
			"Conflict":    {Description: "Resource conflict", Content: errorBody},
			"Unavailable": {Description: "Dependent service unavailable", Content: errorBody},
		},
	}
}

// AddSchemas merges schemas into the component registry.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// SchemaRef references a component schema.
func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// ResponseRef references a component response.
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON creates a JSON request body referencing a component schema.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{
		Required: required,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef(schemaName)},
		},
	}
}

// RequestBodyMultipart describes a multipart upload with a repeated file field.
func RequestBodyMultipart(field, description string) *RequestBody {
	return &RequestBody{
		Required: true,
		Content: map[string]*MediaType{
			"multipart/form-data": {Schema: &Schema{
				Type: "object",
				Properties: map[string]*Schema{
					field: {
						Type:        "array",
						Description: description,
						Items:       &Schema{Type: "string", Format: "binary"},
					},
				},
				Required: []string{field},
			}},
		},
	}
}

// ResponseJSON creates a JSON response referencing a component schema.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef(schemaName)},
		},
	}
}

// ResponseBinary creates a response with a raw body of contentType.
func ResponseBinary(description, contentType string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			contentType: {Schema: &Schema{Type: "string", Format: "binary"}},
		},
	}
}

// PathParam creates a required path parameter with UUID format.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

// IntPathParam creates a required integer path parameter.
func IntPathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "integer"},
	}
}

// QueryParam creates a query parameter of the given JSON type.
func QueryParam(name, typ, description string, required bool) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "query",
		Required:    required,
		Description: description,
		Schema:      &Schema{Type: typ},
	}
}

// PageParams returns the standard pagination query parameters.
func PageParams() []*Parameter {
	return []*Parameter{
		QueryParam("page", "integer", "Page number (1-based)", false),
		QueryParam("page_size", "integer", "Results per page", false),
		QueryParam("search", "string", "Free-text search", false),
		QueryParam("sort", "string", "Comma-separated fields, '-' prefix for descending", false),
	}
}
