package exports

import "github.com/JaimeStill/perito-hub/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Download *openapi.Operation
	Preview  *openapi.Operation
	Delete   *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List exports",
		Description: "List generated report documents, newest first",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("report_id", "string", "Filter by report ID", false),
			openapi.QueryParam("report_title", "string", "Filter by report title (contains)", false),
			openapi.QueryParam("process_ref", "string", "Filter by process reference", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Export list", "ArtifactPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find export",
		Description: "Find a generated document by ID",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Export details", "Artifact"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Download: &openapi.Operation{
		Summary:     "Download export",
		Description: "Download the generated PDF as an attachment",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("PDF document", "application/pdf"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Preview: &openapi.Operation{
		Summary:     "Preview export page",
		Description: "Render one page of the generated PDF as PNG. Rendered pages are cached.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
			openapi.QueryParam("page", "integer", "Page number (default 1)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Page image", "image/png"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete export",
		Description: "Delete a generated document and its cached previews",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Artifact ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Export deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Artifact": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"report_id":    {Type: "string", Format: "uuid"},
				"report_title": {Type: "string"},
				"process_ref":  {Type: "string"},
				"filename":     {Type: "string", Example: "relatorio-fotografico.pdf"},
				"content_type": {Type: "string", Example: "application/pdf"},
				"size_bytes":   {Type: "integer", Format: "int64"},
				"page_count":   {Type: "integer"},
				"page_size":    {Type: "string", Enum: []string{"a4", "letter", "legal"}},
				"orientation":  {Type: "string", Enum: []string{"portrait", "landscape"}},
				"storage_key":  {Type: "string"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
		"ArtifactPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Artifact")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
