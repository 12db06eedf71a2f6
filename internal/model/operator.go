package model

// Operator is a console login. MerchantID is empty for platform admins.
type Operator struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
	MerchantID   string `json:"merchantId,omitempty"`
}
