package dto

// ScanURLRequest payload for the URL scanner stub.
type ScanURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ScanFileRequest payload for the file scanner stub.
type ScanFileRequest struct {
	FileName string `json:"file_name" validate:"required"`
}

// BreachSearchRequest payload for the breach search stub.
type BreachSearchRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// DarkWebRequest payload for the dark-web monitor stub.
type DarkWebRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}
