package common

// BridgeTokenHeaderName is the gRPC metadata key used to carry the bridge
// token from the autofill client to the vault process.
const BridgeTokenHeaderName = "bridge_token"

// BridgeTokenSubkeyInfo is the HKDF context used to derive the bridge token
// signing key from the session secret.
const BridgeTokenSubkeyInfo = "gophvault/bridge-token/v1"
