package domain

// Platform identifies the marketplace a generated text is written for.
type Platform string

const (
	PlatformInstagram  Platform = "instagram"
	PlatformIdus       Platform = "idus"
	PlatformSmartstore Platform = "smartstore"
)

// Platforms lists the marketplaces in display order.
var Platforms = []Platform{PlatformInstagram, PlatformIdus, PlatformSmartstore}

func (p Platform) String() string { return string(p) }

func (p Platform) IsValid() bool {
	switch p {
	case PlatformInstagram, PlatformIdus, PlatformSmartstore:
		return true
	}
	return false
}

// ParsePlatform normalizes s and returns the matching Platform.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(NormalizeKey(s))
	return p, p.IsValid()
}

// ErrorKind classifies a failed store or generation call for the UI layer.
type ErrorKind string

const (
	KindNone                   ErrorKind = "none"
	KindInvalidInput           ErrorKind = "invalid_input"
	KindNotFound               ErrorKind = "not_found"
	KindIdentityUnresolved     ErrorKind = "identity_unresolved"
	KindStoreUnavailable       ErrorKind = "store_unavailable"
	KindStoreMisconfigured     ErrorKind = "store_misconfigured"
	KindGenerationFailed       ErrorKind = "generation_failed"
	KindGenerationTimeout      ErrorKind = "generation_timeout"
	KindGenerationUnconfigured ErrorKind = "generation_unconfigured"
)

func (k ErrorKind) String() string { return string(k) }

// Retryable reports whether the UI should offer "try again" for this kind.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindStoreUnavailable, KindGenerationFailed, KindGenerationTimeout:
		return true
	}
	return false
}
