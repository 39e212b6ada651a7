package query

// Type names a JSON schema primitive as understood by structured-output generators
type Type string

// Schema primitive types
const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
)

// Schema is the subset of JSON schema the trend source accepts as an output contract
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	// Order lists Properties keys in the order the generator should emit them
	Order []string `json:"propertyOrdering,omitempty"`
}

// Series contract field names
const (
	FieldSeries           = "series"
	FieldTag              = "tag"
	FieldData             = "data"
	FieldDate             = "date"
	FieldCount            = "count"
	FieldPeakDate         = "peakDate"
	FieldGrowthPercentage = "growthPercentage"
	FieldTotalCount       = "totalCount"
)

// SeriesSchema returns a fresh copy of the reply contract: an object with a required series
// array whose items carry tag, data points, peak date, growth and total
func SeriesSchema() *Schema {
	point := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			FieldDate:  {Type: TypeString, Description: "Month as YYYY-MM"},
			FieldCount: {Type: TypeInteger, Description: "Non-negative video count for the month"},
		},
		Required: []string{FieldDate, FieldCount},
		Order:    []string{FieldDate, FieldCount},
	}
	series := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			FieldTag:              {Type: TypeString},
			FieldData:             {Type: TypeArray, Items: point},
			FieldPeakDate:         {Type: TypeString, Description: "YYYY-MM of the highest count"},
			FieldGrowthPercentage: {Type: TypeString, Description: "Signed change, e.g. +45%"},
			FieldTotalCount:       {Type: TypeNumber},
		},
		Required: []string{FieldTag, FieldData, FieldPeakDate, FieldGrowthPercentage, FieldTotalCount},
		Order:    []string{FieldTag, FieldData, FieldPeakDate, FieldGrowthPercentage, FieldTotalCount},
	}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			FieldSeries: {Type: TypeArray, Items: series},
		},
		Required: []string{FieldSeries},
		Order:    []string{FieldSeries},
	}
}
