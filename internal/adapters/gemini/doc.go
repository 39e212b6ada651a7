// Package gemini implements the trend source Generator on the Gemini structured output API
//
// Each call waits on a token bucket, runs under its own timeout and asks for
// application/json constrained by the series schema. Every failure surfaces as
// DataFetchFailed; no retries happen here
package gemini
