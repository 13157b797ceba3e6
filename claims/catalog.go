package claims

// Registered JWT claim names.
const (
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
	ClaimNotBefore = "nbf"
	ClaimID        = "jti"
	ClaimNonce     = "nonce"
	ClaimAzp       = "azp"
)

// LTI message claim names.
// See https://www.imsglobal.org/spec/lti/v1p3.
const (
	ClaimMessageType  = "https://purl.imsglobal.org/spec/lti/claim/message_type"
	ClaimVersion      = "https://purl.imsglobal.org/spec/lti/claim/version"
	ClaimDeploymentID = "https://purl.imsglobal.org/spec/lti/claim/deployment_id"
	ClaimTargetLink   = "https://purl.imsglobal.org/spec/lti/claim/target_link_uri"
	ClaimRoles        = "https://purl.imsglobal.org/spec/lti/claim/roles"
	ClaimContext      = "https://purl.imsglobal.org/spec/lti/claim/context"
	ClaimResourceLink = "https://purl.imsglobal.org/spec/lti/claim/resource_link"
	ClaimCustom       = "https://purl.imsglobal.org/spec/lti/claim/custom"
	ClaimEndpoint     = "https://purl.imsglobal.org/spec/lti-ags/claim/endpoint"
)

// Shape describes the canonical Go shape of a registered claim.
type Shape int

// Supported claim shapes.
const (
	ShapeString Shape = iota
	ShapeStringList
	ShapeInteger
	ShapeObject
)

// Registered maps a logical property name to its registered claim
// string and canonical shape.
type Registered struct {
	Property string
	Claim    string
	Shape    Shape
}

// catalog is consulted by name-based helpers instead of exposing a
// typed accessor per claim.
var catalog = map[string]Registered{
	"Issuer":       {Property: "Issuer", Claim: ClaimIssuer, Shape: ShapeString},
	"Subject":      {Property: "Subject", Claim: ClaimSubject, Shape: ShapeString},
	"Audience":     {Property: "Audience", Claim: ClaimAudience, Shape: ShapeStringList},
	"ExpiresAt":    {Property: "ExpiresAt", Claim: ClaimExpiresAt, Shape: ShapeInteger},
	"IssuedAt":     {Property: "IssuedAt", Claim: ClaimIssuedAt, Shape: ShapeInteger},
	"NotBefore":    {Property: "NotBefore", Claim: ClaimNotBefore, Shape: ShapeInteger},
	"ID":           {Property: "ID", Claim: ClaimID, Shape: ShapeString},
	"Nonce":        {Property: "Nonce", Claim: ClaimNonce, Shape: ShapeString},
	"MessageType":  {Property: "MessageType", Claim: ClaimMessageType, Shape: ShapeString},
	"Version":      {Property: "Version", Claim: ClaimVersion, Shape: ShapeString},
	"DeploymentID": {Property: "DeploymentID", Claim: ClaimDeploymentID, Shape: ShapeString},
	"TargetLink":   {Property: "TargetLink", Claim: ClaimTargetLink, Shape: ShapeString},
	"Roles":        {Property: "Roles", Claim: ClaimRoles, Shape: ShapeStringList},
	"Context":      {Property: "Context", Claim: ClaimContext, Shape: ShapeObject},
	"ResourceLink": {Property: "ResourceLink", Claim: ClaimResourceLink, Shape: ShapeObject},
	"Custom":       {Property: "Custom", Claim: ClaimCustom, Shape: ShapeObject},
	"Endpoint":     {Property: "Endpoint", Claim: ClaimEndpoint, Shape: ShapeObject},
}

// Lookup returns the catalog entry for a logical property name.
func Lookup(property string) (Registered, bool) {
	r, ok := catalog[property]
	return r, ok
}

// ClaimName returns the registered claim string for a logical property
// name, or the property itself when not registered.
func ClaimName(property string) string {
	if r, ok := catalog[property]; ok {
		return r.Claim
	}
	return property
}
