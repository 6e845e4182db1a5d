package request

// CharacterRequest carries an optional character choice, used when the
// server has to ask the player for one
type CharacterRequest struct {
	Character string `json:"character,omitempty"`
}

// SignUpRequest is the request body for creating a local account
type SignUpRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Character string `json:"character"`
}

// SignInRequest is the request body for signing in to a local account
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GithubClaimRequest is the request body for starting a GitHub session
type GithubClaimRequest struct {
	Code string `json:"code,omitempty"`
}

// GithubProfileRequest is the request body for completing a GitHub profile
type GithubProfileRequest struct {
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	Character string `json:"character,omitempty"`
}

// PasswordRequest is the request body for the test portal and password updates
type PasswordRequest struct {
	Password string `json:"password"`
}

// PurchaseRequest is the request body for buying a shop item
type PurchaseRequest struct {
	Item string `json:"item"`
}

// EquipRequest is the request body for equipping an inventory item
type EquipRequest struct {
	Index      int    `json:"index"`
	Coordinate string `json:"coordinate"`
}

// MoveRequest is the request body for moving on the map
type MoveRequest struct {
	Cell string `json:"cell"`
}
