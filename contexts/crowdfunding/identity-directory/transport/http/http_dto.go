package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Contact     string `json:"contact"`
}

type ProfileDTO struct {
	Identity     string `json:"identity"`
	DisplayName  string `json:"display_name"`
	Contact      string `json:"contact"`
	Registered   bool   `json:"registered"`
	RegisteredAt string `json:"registered_at"`
	UpdatedAt    string `json:"updated_at"`
}

type RegisterResponse struct {
	Profile ProfileDTO `json:"profile"`
}

type GetProfileResponse struct {
	Profile ProfileDTO `json:"profile"`
}
