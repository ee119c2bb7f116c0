package transcode

import "strings"

// ErrorPolicy selects how a unit that a charset cannot represent or parse is handled.
type ErrorPolicy string

const (
	// PolicyStrict aborts the conversion with an error.
	PolicyStrict ErrorPolicy = "strict"

	// PolicyIgnore drops the offending unit.
	PolicyIgnore ErrorPolicy = "ignore"

	// PolicyReplace substitutes a placeholder: "?" when encoding, U+FFFD when decoding.
	PolicyReplace ErrorPolicy = "replace"

	// PolicyXMLCharRefReplace substitutes a decimal character reference (&#8364;).
	// Encode only.
	PolicyXMLCharRefReplace ErrorPolicy = "xml-char-ref-replace"

	// PolicyBackslashReplace substitutes a backslash escape (\u20ac).
	// Encode only.
	PolicyBackslashReplace ErrorPolicy = "backslash-replace"
)

// validEncodePolicies contains all policies accepted by Encode.
var validEncodePolicies = map[ErrorPolicy]bool{
	PolicyStrict:            true,
	PolicyIgnore:            true,
	PolicyReplace:           true,
	PolicyXMLCharRefReplace: true,
	PolicyBackslashReplace:  true,
}

// validDecodePolicies contains all policies accepted by Decode.
var validDecodePolicies = map[ErrorPolicy]bool{
	PolicyStrict:  true,
	PolicyIgnore:  true,
	PolicyReplace: true,
}

// policyAliases maps alternative spellings onto policies.
var policyAliases = map[string]ErrorPolicy{
	"xmlcharrefreplace": PolicyXMLCharRefReplace,
	"backslashreplace":  PolicyBackslashReplace,
}

// IsValidEncodePolicy returns true if the policy can be used with Encode.
func IsValidEncodePolicy(p ErrorPolicy) bool {
	return validEncodePolicies[p]
}

// IsValidDecodePolicy returns true if the policy can be used with Decode.
func IsValidDecodePolicy(p ErrorPolicy) bool {
	return validDecodePolicies[p]
}

// ParsePolicy converts a policy name into an ErrorPolicy.
// Matching is case-insensitive and "_" is treated as "-".
func ParsePolicy(name string) (ErrorPolicy, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if p, ok := policyAliases[n]; ok {
		return p, nil
	}
	if p := ErrorPolicy(n); validEncodePolicies[p] {
		return p, nil
	}
	return "", newLookupError(ErrUnsupportedPolicy, "parse", name, nil)
}

// normalizePolicy maps alternate spellings such as "STRICT" or
// "xmlcharrefreplace" onto the canonical policy. Unknown names are returned
// unchanged so validation reports them as given.
func normalizePolicy(p ErrorPolicy) ErrorPolicy {
	if parsed, err := ParsePolicy(string(p)); err == nil {
		return parsed
	}
	return p
}
