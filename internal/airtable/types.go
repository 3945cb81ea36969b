package airtable

// Config defines Airtable API settings
type Config struct {
	BaseURL       string
	Token         string
	BaseID        string
	TableName     string
	View          string
	FilterFormula string
}

// Upstream field names, as named in the Jobs table.
const (
	fieldTitle     = "Title"
	fieldLocation  = "Location"
	fieldSalary    = "Salary Range"
	fieldShortDesc = "Short Description"
	fieldLongDesc  = "Long Description"
)

// Placeholders for fields absent upstream.
const (
	DefaultTitle     = "No Title"
	DefaultLocation  = "Remote"
	DefaultSalary    = "Competitive"
	DefaultShortDesc = "A new opportunity."
	DefaultLongDesc  = "Details coming soon."
)

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// Record is one row of an Airtable list response.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// JobRecord is the reduced listing shape served to the front-end.
type JobRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	Salary    string `json:"salary"`
	ShortDesc string `json:"shortDesc"`
	LongDesc  string `json:"longDesc"`
}
