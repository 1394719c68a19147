package domain

// KeyPrefix is the default storage namespace for all browsekit keys.
const KeyPrefix = "browsekit:"

// BrowseDefaults holds the observed defaults of the browsing surfaces.
type BrowseDefaults struct {
	SelectionCapacity int
	InitialCount      int
	RevealStep        int
	PageSize          int
	MaxPageSize       int
	DebounceMillis    int
}

// DefaultBrowseConfig returns the defaults used by the speaker, exhibitor,
// community and marketplace pages.
func DefaultBrowseConfig() BrowseDefaults {
	return BrowseDefaults{
		SelectionCapacity: 3,
		InitialCount:      24,
		RevealStep:        24,
		PageSize:          20,
		MaxPageSize:       100,
		DebounceMillis:    300,
	}
}
