package consts

import "strings"

const (
	// Market data sources
	SourceAlphaVantage = "alphavantage"
	SourceYahoo        = "yahoo"
	SourceLongport     = "longport"

	// LLM providers
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
)

func Sources() []string {
	return []string{SourceAlphaVantage, SourceYahoo, SourceLongport}
}

func Providers() []string {
	return []string{ProviderAnthropic, ProviderOpenAI, ProviderDeepSeek}
}

// IsKnownSource reports whether name is a supported source, ignoring case.
func IsKnownSource(name string) bool {
	for _, s := range Sources() {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func IsKnownProvider(name string) bool {
	for _, p := range Providers() {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}
