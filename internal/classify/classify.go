// Package classify maps biller decline codes to a canonical error
// classification. Lookup proceeds biller by biller; unknown combinations
// fall back to a fixed default so classification can never block a response
// from reaching the caller.
package classify

import "fmt"

// ErrorClassification annotates a declined or aborted transaction.
type ErrorClassification struct {
	GroupDecline      string `json:"groupDecline"`
	ErrorType         string `json:"errorType"`
	GroupMessage      string `json:"groupMessage"`
	RecommendedAction string `json:"recommendedAction"`
	MappingCriteria   string `json:"mappingCriteria"`
}

// Error types group declines by whether resubmitting can ever help.
const (
	ErrorTypeHard      = "hard"
	ErrorTypeSoft      = "soft"
	ErrorTypeTechnical = "technical"
)

// Default is the documented fallback tuple returned for every
// (biller, code, reason) triple absent from the tables.
var Default = ErrorClassification{
	GroupDecline:      "declined",
	ErrorType:         ErrorTypeHard,
	GroupMessage:      "Transaction was declined by the biller",
	RecommendedAction: "Contact the card issuer before retrying",
}

type key struct {
	code   string
	reason string
}

// anyCode matches a reason regardless of the response code column.
const anyCode = "*"

// Classify resolves (billerName, responseCode, reasonCode) to a
// classification. It is a pure lookup and always succeeds.
func Classify(billerName, code, reason string) ErrorClassification {
	table, ok := tables[billerName]
	if !ok {
		return withCriteria(Default, billerName, code, reason)
	}
	if c, ok := table[key{code: code, reason: reason}]; ok {
		return withCriteria(c, billerName, code, reason)
	}
	if c, ok := table[key{code: anyCode, reason: reason}]; ok {
		return withCriteria(c, billerName, code, reason)
	}
	return withCriteria(Default, billerName, code, reason)
}

func withCriteria(c ErrorClassification, billerName, code, reason string) ErrorClassification {
	c.MappingCriteria = fmt.Sprintf("biller=%s code=%s reason=%s", billerName, code, reason)
	return c
}

var tables = map[string]map[key]ErrorClassification{
	"rocketgate": rocketgateTable,
	"netbilling": netbillingTable,
}
