package entity

type SearchProvider string

const (
	SearchProviderGoogle  SearchProvider = "google"
	SearchProviderPixabay SearchProvider = "pixabay"
	SearchProviderVCG     SearchProvider = "vcg"
)

// SearchProviders lists providers in display order.
var SearchProviders = []SearchProvider{
	SearchProviderGoogle,
	SearchProviderPixabay,
	SearchProviderVCG,
}

func (p SearchProvider) IsValid() bool {
	switch p {
	case SearchProviderGoogle, SearchProviderPixabay, SearchProviderVCG:
		return true
	default:
		return false
	}
}

// Label returns the button caption shown to the user.
func (p SearchProvider) Label() string {
	switch p {
	case SearchProviderGoogle:
		return "Google"
	case SearchProviderPixabay:
		return "Pixabay"
	case SearchProviderVCG:
		return "视觉中国"
	default:
		return string(p)
	}
}
