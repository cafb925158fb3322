package main

import "fmt"

// endpoint is the resolved service address and credential.
type endpoint struct {
	baseURL string
	apiKey  string
}

// resolveEndpoint merges flag and environment values. Flags win. All env
// var values are passed in as parameters — env is only read in main().
func resolveEndpoint(baseURLFlag, apiKeyFlag, baseURLEnv, apiKeyEnv string) (endpoint, error) {
	baseURL := baseURLFlag
	if baseURL == "" {
		baseURL = baseURLEnv
	}
	if baseURL == "" {
		return endpoint{}, fmt.Errorf("no base URL: set FLUX_BASE_URL or use the -base-url flag")
	}

	apiKey := apiKeyFlag
	if apiKey == "" {
		apiKey = apiKeyEnv
	}

	return endpoint{baseURL: baseURL, apiKey: apiKey}, nil
}
