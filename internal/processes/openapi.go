package processes

import "github.com/JaimeStill/perito-hub/pkg/openapi"

type spec struct {
	List      *openapi.Operation
	Summary   *openapi.Operation
	Find      *openapi.Operation
	Create    *openapi.Operation
	Update    *openapi.Operation
	SetStatus *openapi.Operation
	Delete    *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List processes",
		Description: "Paginated case list, nearest deadline first",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("status", "string", "Filter by status", false),
			openapi.QueryParam("kind", "string", "Filter by kind of expertise (contains)", false),
			openapi.QueryParam("court", "string", "Filter by court (contains)", false),
			openapi.QueryParam("due_before", "string", "Only deadlines on or before this date (YYYY-MM-DD)", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Processes", "ProcessPageResult"),
		},
	},
	Summary: &openapi.Operation{
		Summary:     "Docket summary",
		Description: "Counts by state, pending fees and upcoming deadlines",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("horizon", "integer", "Days ahead to look for deadlines (default 30)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Summary", "ProcessSummary"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find process",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Process ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Process", "Process"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Register process",
		Description: "Registers a new case. Fee accepts integer cents or a BRL string such as \"R$ 5.000,00\"",
		RequestBody: openapi.RequestBodyJSON("ProcessCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Process registered", "Process"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary: "Update process",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Process ID"),
		},
		RequestBody: openapi.RequestBodyJSON("ProcessCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Process updated", "Process"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	SetStatus: &openapi.Operation{
		Summary: "Change process status",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Process ID"),
		},
		RequestBody: openapi.RequestBodyJSON("ProcessStatus", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Process updated", "Process"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete process",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Process ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Process deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	status := &openapi.Schema{Type: "string", Enum: Statuses()}

	return map[string]*openapi.Schema{
		"Process": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"number":        {Type: "string", Example: "0001234-56.2023.8.26.0100"},
				"court":         {Type: "string", Example: "2ª Vara Cível"},
				"kind":          {Type: "string", Example: "Perícia Contábil"},
				"party":         {Type: "string"},
				"status":        status,
				"designated_at": {Type: "string", Format: "date"},
				"deadline":      {Type: "string", Format: "date"},
				"fee":           {Type: "integer", Description: "Fee in centavos"},
				"description":   {Type: "string", Nullable: true},
				"created_at":    {Type: "string", Format: "date-time"},
				"updated_at":    {Type: "string", Format: "date-time"},
			},
		},
		"ProcessCommand": {
			Type:     "object",
			Required: []string{"number", "court", "kind", "party", "deadline", "fee"},
			Properties: map[string]*openapi.Schema{
				"number":        {Type: "string", Description: "Judicial number, at least 15 characters"},
				"court":         {Type: "string"},
				"kind":          {Type: "string"},
				"party":         {Type: "string"},
				"status":        status,
				"designated_at": {Type: "string", Format: "date"},
				"deadline":      {Type: "string", Format: "date"},
				"fee":           {Type: "integer", Example: 500000},
				"description":   {Type: "string"},
			},
		},
		"ProcessStatus": {
			Type:       "object",
			Required:   []string{"status"},
			Properties: map[string]*openapi.Schema{"status": status},
		},
		"ProcessSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"active":       {Type: "integer"},
				"delivered":    {Type: "integer"},
				"concluded":    {Type: "integer"},
				"overdue":      {Type: "integer"},
				"pending_fees": {Type: "integer"},
				"upcoming":     {Type: "array", Items: openapi.SchemaRef("Process")},
			},
		},
		"ProcessPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Process")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
