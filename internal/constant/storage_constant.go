package constant

const (
	// LedgerStorageKey holds the canonical snapshot string.
	LedgerStorageKey = "steno_ledger_integrated_v1"

	// APIKeyOverrideKey holds a user supplied Gemini key. Absent unless the user entered one.
	APIKeyOverrideKey = "steno_api_key_override"

	LedgerEventsTopic = "ledger.events"
)
