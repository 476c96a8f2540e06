package entity

// DefaultRegion is used when a request carries no region.
const DefaultRegion = "us"

var regions = map[string]struct{}{
	"au": {}, "ca": {}, "de": {}, "es": {}, "fr": {},
	"in": {}, "it": {}, "jp": {}, "uk": {}, "us": {},
}

// Regions returns the supported region codes.
func Regions() []string {
	return []string{"au", "ca", "de", "es", "fr", "in", "it", "jp", "uk", "us"}
}

// ValidateRegion reports whether region is a supported locale.
func ValidateRegion(region string) bool {
	_, ok := regions[region]
	return ok
}

// RegionOrDefault returns region, or DefaultRegion when it is empty.
func RegionOrDefault(region string) string {
	if region == "" {
		return DefaultRegion
	}
	return region
}
