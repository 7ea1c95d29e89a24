package config

// RegionFromEnv returns the first non-empty of flagValue, AWS_REGION and
// AWS_DEFAULT_REGION, falling back to DefaultRegion.
func RegionFromEnv(flagValue string, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	for _, key := range []string{"AWS_REGION", "AWS_DEFAULT_REGION"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return DefaultRegion
}
