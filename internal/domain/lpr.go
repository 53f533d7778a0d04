package domain

type LPRRequestDTO struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// LPRResponseDTO carries the recognised plate and, when one was found,
// whether the vehicle currently holds an active parking session.
type LPRResponseDTO struct {
	DetectedPlate string                `json:"detected_plate"`
	Confidence    float32               `json:"confidence,omitempty"`
	ActiveSession *ParkingSessionDetail `json:"active_session,omitempty"`
	ErrorMessage  string                `json:"error_message,omitempty"`
}
