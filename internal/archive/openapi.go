package archive

import "github.com/JaimeStill/perito-hub/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Delete *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List saved reports",
		Description: "List saved reports, most recently updated first",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("process_ref", "string", "Filter by process reference", false),
			openapi.QueryParam("title", "string", "Filter by title (contains)", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Saved reports", "SavedReportPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find saved report",
		Description: "Find a saved report with its photos in page order",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Report ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Saved report", "SavedReport"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete saved report",
		Description: "Delete a saved report and uploaded photos no other report uses",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Report ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Report deleted"},
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"SavedReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"process_ref":        {Type: "string", Example: "0001234-56.2023.8.26.0100"},
				"related_report_ref": {Type: "string", Nullable: true},
				"title":              {Type: "string"},
				"description":        {Type: "string"},
				"page_size":          {Type: "string", Enum: []string{"a4", "letter", "legal"}},
				"orientation":        {Type: "string", Enum: []string{"portrait", "landscape"}},
				"footer_text":        {Type: "string"},
				"photo_count":        {Type: "integer"},
				"created_at":         {Type: "string", Format: "date-time"},
				"updated_at":         {Type: "string", Format: "date-time"},
				"photos":             {Type: "array", Items: openapi.SchemaRef("Photo")},
			},
		},
		"SavedReportPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("SavedReport")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
