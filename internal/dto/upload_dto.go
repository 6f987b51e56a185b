package dto

type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
}

type UploadResponse struct {
	Files []UploadedFile `json:"files"`
}
