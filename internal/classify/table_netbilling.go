package classify

// netbillingTable keys declines by (status, auth_msg) as Netbilling reports
// them.
var netbillingTable = map[key]ErrorClassification{
	{code: "0", reason: "DECLINED"}: {
		GroupDecline:      "do_not_honor",
		ErrorType:         ErrorTypeSoft,
		GroupMessage:      "Issuer declined without a specific reason",
		RecommendedAction: "Retry after a cool-down period",
	},
	{code: "0", reason: "CALL ND"}: {
		GroupDecline:      "call_issuer",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Issuer requires a voice authorization",
		RecommendedAction: "Contact the card issuer before retrying",
	},
	{code: "0", reason: "CARD EXPIRED"}: {
		GroupDecline:      "expired_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card is past its expiration date",
		RecommendedAction: "Request an updated card from the customer",
	},
	{code: "0", reason: "INSUFF FUNDS"}: {
		GroupDecline:      "insufficient_funds",
		ErrorType:         ErrorTypeSoft,
		GroupMessage:      "Insufficient funds on the account",
		RecommendedAction: "Retry after the customer adds funds",
	},
	{code: "0", reason: "INVALID CARDNO"}: {
		GroupDecline:      "invalid_card",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card number does not exist",
		RecommendedAction: "Resubmit with a corrected card number",
	},
	{code: "E", reason: "TIMEOUT"}: {
		GroupDecline:      "issuer_unavailable",
		ErrorType:         ErrorTypeTechnical,
		GroupMessage:      "Processor timed out talking to the issuer",
		RecommendedAction: "Retry the transaction later",
	},
	{code: "F", reason: "AVS MISMATCH"}: {
		GroupDecline:      "avs_mismatch",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Billing address failed verification",
		RecommendedAction: "Resubmit with the corrected billing address",
	},
	{code: "F", reason: "CVV2 MISMATCH"}: {
		GroupDecline:      "cvv_mismatch",
		ErrorType:         ErrorTypeHard,
		GroupMessage:      "Card security code failed verification",
		RecommendedAction: "Resubmit with the corrected security code",
	},
}
