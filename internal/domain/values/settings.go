package values

import "errors"

var ErrInvalidBillerSettings = errors.New("invalid biller charge settings")

// BillerChargeSettings carries the per-biller credential and routing fields a
// charge needs. One struct covers all billers; each adapter reads the fields
// its gateway uses and Validate enforces the minimum set per biller family.
type BillerChargeSettings struct {
	MerchantID       string
	MerchantPassword string
	AccountID        string
	SiteTag          string
	ClientID         string
	ClientSecret     string
	APIKey           string
	MerchantNumber   string
	PersonalHashKey  string
	MerchantSiteID   string
	IsNSFSupported   bool
	MerchantCustomer string
	MerchantInvoice  string
}

// Redacted returns a copy safe for interaction payloads and logs: secret
// fields replaced with a fixed mask, routing fields kept.
func (s BillerChargeSettings) Redacted() BillerChargeSettings {
	mask := func(v string) string {
		if v == "" {
			return ""
		}
		return "*******"
	}
	s.MerchantPassword = mask(s.MerchantPassword)
	s.ClientSecret = mask(s.ClientSecret)
	s.APIKey = mask(s.APIKey)
	s.PersonalHashKey = mask(s.PersonalHashKey)
	return s
}
