package cose

// COSE header parameter labels (RFC 9052, RFC 9360).
const (
	HeaderLabelAlgorithm   int64 = 1
	HeaderLabelContentType int64 = 3
	HeaderLabelKeyID       int64 = 4
	HeaderLabelX5Chain     int64 = 33
	HeaderLabelX5T         int64 = 34
)

// HeaderLabelCWTClaims nests CWT claims in the protected header, as assigned
// by the SCITT architecture draft (issuer identity section).
const HeaderLabelCWTClaims int64 = 13

// CWT claim keys (RFC 8392, RFC 8747).
const (
	CWTClaimIssuer       int64 = 1
	CWTClaimSubject      int64 = 2
	CWTClaimConfirmation int64 = 8

	// ConfirmationCOSEKey is the cnf member holding a COSE_Key.
	ConfirmationCOSEKey int64 = 1
)

// Hash envelope labels.
const (
	HeaderLabelPayloadHashAlgorithm int64 = 998
	HeaderLabelPayloadLocation      int64 = 999
)

// COSE_Key parameters (RFC 9053).
const (
	KeyLabelKeyType int64 = 1
	KeyLabelCurve   int64 = -1
	KeyLabelX       int64 = -2
	KeyLabelY       int64 = -3
)

const (
	// AlgorithmES256 is ECDSA w/ SHA-256.
	AlgorithmES256 int64 = -7
	// AlgorithmSHA256 is the COSE identifier for SHA-256.
	AlgorithmSHA256 int64 = -16

	KeyTypeEC2   int64 = 2
	CurveP256    int64 = 1
	P256CoordLen       = 32
)

// TagSign1 is the CBOR tag of a COSE_Sign1 message.
const TagSign1 = 18

// ContextSignature1 is the Sig_structure context for COSE_Sign1.
const ContextSignature1 = "Signature1"
