package sessions

import "github.com/JaimeStill/perito-hub/pkg/openapi"

type spec struct {
	List           *openapi.Operation
	Open           *openapi.Operation
	Find           *openapi.Operation
	Close          *openapi.Operation
	Events         *openapi.Operation
	UpdateMetadata *openapi.Operation
	UpdateOption   *openapi.Operation
	Save           *openapi.Operation
	Export         *openapi.Operation
	AddPhoto       *openapi.Operation
	Upload         *openapi.Operation
	UpdatePhoto    *openapi.Operation
	DeletePhoto    *openapi.Operation
	MovePhoto      *openapi.Operation
	Image          *openapi.Operation
}

func sessionParam() *openapi.Parameter {
	return openapi.PathParam("id", "Session ID")
}

func photoParams() []*openapi.Parameter {
	return []*openapi.Parameter{
		sessionParam(),
		openapi.IntPathParam("photo", "Photo ID within the report"),
	}
}

func asyncParam() *openapi.Parameter {
	return openapi.QueryParam("async", "boolean", "Answer 202 immediately; the outcome arrives on the event stream", false)
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List sessions",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Open sessions, most recently active first",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Session")}},
				},
			},
		},
	},
	Open: &openapi.Operation{
		Summary:     "Open session",
		Description: "Starts editing a new report, or resumes a saved one when report_id is given",
		RequestBody: openapi.RequestBodyJSON("OpenSession", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Session opened", "Session"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find session",
		Parameters: []*openapi.Parameter{sessionParam()},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session with photos", "Session"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Close: &openapi.Operation{
		Summary:     "Close session",
		Description: "Discards unsaved changes and uploaded photos no saved report uses",
		Parameters:  []*openapi.Parameter{sessionParam()},
		Responses: map[int]*openapi.Response{
			204: {Description: "Session closed"},
		},
	},
	Events: &openapi.Operation{
		Summary:     "Session events",
		Description: "Server-sent events named after the editor notification type",
		Parameters:  []*openapi.Parameter{sessionParam()},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Event stream", "text/event-stream"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	UpdateMetadata: &openapi.Operation{
		Summary:     "Update report metadata",
		Description: "Fields: process_ref, related_report_ref, title, description",
		Parameters:  []*openapi.Parameter{sessionParam()},
		RequestBody: openapi.RequestBodyJSON("FieldUpdate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Metadata", "ReportMetadata"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	UpdateOption: &openapi.Operation{
		Summary:     "Update export option",
		Description: "Fields: page_size (a4, letter, legal), orientation (portrait, landscape), footer_text",
		Parameters:  []*openapi.Parameter{sessionParam()},
		RequestBody: openapi.RequestBodyJSON("FieldUpdate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Options", "ExportOptions"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Save: &openapi.Operation{
		Summary:    "Save report",
		Parameters: []*openapi.Parameter{sessionParam(), asyncParam()},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Saved", "SaveAck"),
			202: {Description: "Save started"},
			500: {Description: "Save failed"},
		},
	},
	Export: &openapi.Operation{
		Summary:     "Export report",
		Description: "Renders the current report to PDF. Overlapping exports run independently",
		Parameters:  []*openapi.Parameter{sessionParam(), asyncParam()},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Generated document", "ArtifactReference"),
			202: {Description: "Export started"},
			422: {Description: "Report cannot be exported"},
			503: openapi.ResponseRef("Unavailable"),
			504: {Description: "Export timed out"},
		},
	},
	AddPhoto: &openapi.Operation{
		Summary:     "Add photo",
		Description: "Appends a photo referencing an image URL. A missing date defaults to today",
		Parameters:  []*openapi.Parameter{sessionParam()},
		RequestBody: openapi.RequestBodyJSON("PhotoDraft", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Photo added", "Photo"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload photos",
		Description: "Stores images and appends them in natural filename order. EXIF capture date and GPS position fill date and location",
		Parameters:  []*openapi.Parameter{sessionParam()},
		RequestBody: openapi.RequestBodyMultipart("files", "JPEG, PNG, GIF or BMP images"),
		Responses: map[int]*openapi.Response{
			201: {
				Description: "Photos added",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Photo")}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
			413: {Description: "Upload too large"},
			415: {Description: "Not an image"},
		},
	},
	UpdatePhoto: &openapi.Operation{
		Summary:     "Update photo",
		Description: "Fields: caption, location, date (YYYY-MM-DD)",
		Parameters:  photoParams(),
		RequestBody: openapi.RequestBodyJSON("FieldUpdate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Photo updated", "Photo"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	DeletePhoto: &openapi.Operation{
		Summary:    "Remove photo",
		Parameters: photoParams(),
		Responses: map[int]*openapi.Response{
			204: {Description: "Photo removed or already absent"},
		},
	},
	MovePhoto: &openapi.Operation{
		Summary:     "Move photo",
		Description: "Swaps the photo with its neighbour. Moving past either end changes nothing",
		Parameters:  photoParams(),
		RequestBody: openapi.RequestBodyJSON("MovePhoto", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Resulting order", "MoveResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Image: &openapi.Operation{
		Summary:     "Photo image",
		Description: "Serves stored images; external images redirect to their URL",
		Parameters:  photoParams(),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Image", "image/*"),
			302: {Description: "External image"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	photo := map[string]*openapi.Schema{
		"url":      {Type: "string", Example: "storage://photos/5f0c.../sala.jpg"},
		"caption":  {Type: "string"},
		"location": {Type: "string"},
		"date":     {Type: "string", Format: "date"},
	}
	withID := map[string]*openapi.Schema{"id": {Type: "integer"}}
	for k, v := range photo {
		withID[k] = v
	}

	return map[string]*openapi.Schema{
		"Photo":      {Type: "object", Properties: withID},
		"PhotoDraft": {Type: "object", Properties: photo},
		"ReportMetadata": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"process_ref":        {Type: "string"},
				"related_report_ref": {Type: "string", Nullable: true},
				"title":              {Type: "string"},
				"description":        {Type: "string"},
			},
		},
		"ExportOptions": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page_size":   {Type: "string", Enum: []string{"a4", "letter", "legal"}},
				"orientation": {Type: "string", Enum: []string{"portrait", "landscape"}},
				"footer_text": {Type: "string"},
			},
		},
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"report_id":   {Type: "string", Format: "uuid"},
				"state":       {Type: "string", Enum: []string{"idle", "editing", "exporting"}},
				"dirty":       {Type: "boolean"},
				"in_flight":   {Type: "integer"},
				"photo_count": {Type: "integer"},
				"metadata":    openapi.SchemaRef("ReportMetadata"),
				"options":     openapi.SchemaRef("ExportOptions"),
				"photos":      {Type: "array", Items: openapi.SchemaRef("Photo")},
				"created_at":  {Type: "string", Format: "date-time"},
				"last_active": {Type: "string", Format: "date-time"},
			},
		},
		"OpenSession": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"report_id":          {Type: "string", Format: "uuid", Description: "Resume a saved report"},
				"process_ref":        {Type: "string"},
				"related_report_ref": {Type: "string"},
				"title":              {Type: "string"},
				"description":        {Type: "string"},
				"options":            openapi.SchemaRef("ExportOptions"),
			},
		},
		"FieldUpdate": {
			Type:     "object",
			Required: []string{"field", "value"},
			Properties: map[string]*openapi.Schema{
				"field": {Type: "string"},
				"value": {Type: "string"},
			},
		},
		"MovePhoto": {
			Type:       "object",
			Required:   []string{"direction"},
			Properties: map[string]*openapi.Schema{"direction": {Type: "string", Enum: []string{"up", "down"}}},
		},
		"MoveResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"moved":  {Type: "boolean"},
				"photos": {Type: "array", Items: openapi.SchemaRef("Photo")},
			},
		},
		"SaveAck": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"report_id": {Type: "string", Format: "uuid"},
				"saved_at":  {Type: "string", Format: "date-time"},
			},
		},
		"ArtifactReference": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer"},
				"storage_key":  {Type: "string"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
	}
}
