package grapherror

// Category represents the main error category surfaced to the presentation shell
type Category string

const (
	// CategoryLoad indicates the graph store could not be populated
	CategoryLoad Category = "load"

	// CategoryDataset indicates the dataset document could not be fetched or decoded
	CategoryDataset Category = "dataset"

	// CategoryWebSocket indicates WebSocket connection/communication errors
	CategoryWebSocket Category = "websocket"

	// CategoryGesture indicates a malformed pointer or hover event
	CategoryGesture Category = "gesture"

	// CategoryQuery indicates a filter query could not be parsed
	CategoryQuery Category = "query"

	// CategoryInternal indicates internal server errors
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Load subcategories
const (
	SubcategoryLoadEmpty         = "empty"
	SubcategoryLoadAlreadyLoaded = "already_loaded"
	SubcategoryLoadNoSurvivors   = "no_survivors"
)

// Dataset subcategories
const (
	SubcategoryDatasetFetch  = "fetch"
	SubcategoryDatasetDecode = "decode"
)

// WebSocket subcategories
const (
	SubcategoryWSUpgrade  = "upgrade"
	SubcategoryWSRead     = "read"
	SubcategoryWSWrite    = "write"
	SubcategoryWSProtocol = "protocol"
	SubcategoryWSVersion  = "version"
)

// Query subcategories
const (
	SubcategoryQueryInvalidSyntax = "invalid_syntax"
	SubcategoryQueryInvalidValue  = "invalid_value"
	SubcategoryQueryUnknownTerm   = "unknown_term"
)

// Internal subcategories
const (
	// SubcategoryInternalPanic indicates a panic was recovered
	SubcategoryInternalPanic = "panic"

	// SubcategoryInternalConfig indicates configuration error
	SubcategoryInternalConfig = "config"
)
