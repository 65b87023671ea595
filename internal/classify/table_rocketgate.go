package classify

// rocketgateTable keys declines by (responseCode, reasonCode). Reason codes
// follow the Rocketgate gateway documentation; the 2xx range is the 3DS
// family and never reaches the classifier because those responses stay
// pending.
var rocketgateTable = map[key]ErrorClassification{
	{code: "1", reason: "104"}: {
		GroupDecline:      "invalid_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card number failed validation",
		RecommendedAction: "Resubmit with a corrected card number",
	},
	{code: "1", reason: "105"}: {
		GroupDecline:      "expired_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card is past its expiration date",
		RecommendedAction: "Request an updated card from the customer",
	},
	{code: "1", reason: "111"}: {
		GroupDecline:      "invalid_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card number does not exist",
		RecommendedAction: "Resubmit with a corrected card number",
	},
	{code: "1", reason: "117"}: {
		GroupDecline:      "insufficient_funds",
		ErrorType:         ErrorTypeSoft,
		GroupMessage:      "Insufficient funds on the account",
		RecommendedAction: "Retry after the customer adds funds",
	},
	{code: "1", reason: "123"}: {
		GroupDecline:      "do_not_honor",
		ErrorType:         ErrorTypeSoft,
		GroupMessage:      "Issuer declined without a specific reason",
		RecommendedAction: "Retry after a cool-down period",
	},
	{code: "1", reason: "126"}: {
		GroupDecline:      "invalid_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card is not supported by the issuer",
		RecommendedAction: "Request a different card from the customer",
	},
	{code: "1", reason: "151"}: {
		GroupDecline:      "stolen_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card has been reported lost or stolen",
		RecommendedAction: "Do not retry",
	},
	{code: "2", reason: "154"}: {
		GroupDecline:      "risk_block",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Transaction blocked by gateway scrubbing",
		RecommendedAction: "Do not retry",
	},
	{code: "1", reason: "156"}: {
		GroupDecline:      "issuer_unavailable",
		ErrorType:         ErrorTypeTechnical,
		GroupMessage:      "Issuer could not be reached",
		RecommendedAction: "Retry the transaction later",
	},
	{code: anyCode, reason: "325"}: {
		GroupDecline:      "authentication_failed",
		ErrorType:         ErrorTypeSoft,
		GroupMessage:      "3-D Secure authentication was not completed",
		RecommendedAction: "Retry with a fresh authentication window",
	},
	{code: "3", reason: "311"}: {
		GroupDecline:      "gateway_error",
		ErrorType:         ErrorTypeTechnical,
		GroupMessage:      "Gateway rejected the request as malformed",
		RecommendedAction: "Resubmit corrected payload",
	},
}
