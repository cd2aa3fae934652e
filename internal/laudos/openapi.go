package laudos

import "github.com/JaimeStill/perito-hub/pkg/openapi"

type spec struct {
	List      *openapi.Operation
	Find      *openapi.Operation
	Create    *openapi.Operation
	Update    *openapi.Operation
	SetStatus *openapi.Operation
	Delete    *openapi.Operation
}

var unknownProcess = &openapi.Response{Description: "process_number is not a registered case"}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List laudos",
		Description: "Paginated laudo list, newest first. Search matches title and process number",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("status", "string", "Filter by status", false),
			openapi.QueryParam("kind", "string", "Filter by kind of expertise (contains)", false),
			openapi.QueryParam("process_number", "string", "Only laudos of this case", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Laudos", "LaudoPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find laudo",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Laudo ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Laudo", "Laudo"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create laudo",
		Description: "Starts a laudo for a registered case",
		RequestBody: openapi.RequestBodyJSON("LaudoCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Laudo created", "Laudo"),
			400: openapi.ResponseRef("BadRequest"),
			422: unknownProcess,
		},
	},
	Update: &openapi.Operation{
		Summary: "Update laudo",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Laudo ID"),
		},
		RequestBody: openapi.RequestBodyJSON("LaudoCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Laudo updated", "Laudo"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			422: unknownProcess,
		},
	},
	SetStatus: &openapi.Operation{
		Summary:     "Change laudo status",
		Description: "Delivering a laudo records the delivery date and marks its open case as laudo_entregue",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Laudo ID"),
		},
		RequestBody: openapi.RequestBodyJSON("LaudoStatus", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Laudo updated", "Laudo"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete laudo",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Laudo ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Laudo deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	status := &openapi.Schema{Type: "string", Enum: Statuses()}

	return map[string]*openapi.Schema{
		"Laudo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"process_number": {Type: "string", Example: "0001234-56.2023.8.26.0100"},
				"title":          {Type: "string", Example: "Laudo Pericial - Processo 0001234-56.2023.8.26.0100"},
				"kind":           {Type: "string", Example: "Perícia Contábil"},
				"status":         status,
				"introduction":   {Type: "string", Nullable: true},
				"methodology":    {Type: "string", Nullable: true},
				"analysis":       {Type: "string"},
				"conclusion":     {Type: "string"},
				"delivered_at":   {Type: "string", Format: "date", Nullable: true},
				"created_at":     {Type: "string", Format: "date-time"},
				"updated_at":     {Type: "string", Format: "date-time"},
			},
		},
		"LaudoCommand": {
			Type:     "object",
			Required: []string{"process_number", "title", "kind", "analysis", "conclusion"},
			Properties: map[string]*openapi.Schema{
				"process_number": {Type: "string"},
				"title":          {Type: "string", Description: "At least 3 characters"},
				"kind":           {Type: "string"},
				"status":         status,
				"introduction":   {Type: "string"},
				"methodology":    {Type: "string"},
				"analysis":       {Type: "string", Description: "At least 10 characters"},
				"conclusion":     {Type: "string", Description: "At least 10 characters"},
			},
		},
		"LaudoStatus": {
			Type:       "object",
			Required:   []string{"status"},
			Properties: map[string]*openapi.Schema{"status": status},
		},
		"LaudoPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Laudo")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
