package handler

import "time"

type studentRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
}

// submitIssuanceRequest carries the class submission. Field presence is
// checked by the service so that every missing field is reported at once;
// only the student entries use validator tags here.
type submitIssuanceRequest struct {
	Program             string           `json:"program"`
	Site                string           `json:"site"`
	ClassType           string           `json:"class_type"`
	StartDate           string           `json:"start_date"`
	EndDate             string           `json:"end_date"`
	PrimaryInstructor   string           `json:"primary_instructor"`
	SecondaryInstructor string           `json:"secondary_instructor,omitempty"`
	OpenEnrollment      bool             `json:"open_enrollment"`
	Students            []studentRequest `json:"students" validate:"dive"`
}

type submitIssuanceResponse struct {
	GroupID       string `json:"group_id"`
	ClassID       string `json:"class_id"`
	CreditsUsed   int    `json:"credits_used"`
	StudentsCount int    `json:"students_count"`
}

type issuedRecordResponse struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	CertificateRef string    `json:"certificate_ref"`
	CreatedAt      time.Time `json:"created_at"`
}

type groupResponse struct {
	GroupID             string                 `json:"group_id"`
	ClassID             string                 `json:"class_id"`
	Program             string                 `json:"program"`
	Site                string                 `json:"site"`
	ClassType           string                 `json:"class_type"`
	StartDate           string                 `json:"start_date"`
	EndDate             string                 `json:"end_date"`
	PrimaryInstructor   string                 `json:"primary_instructor"`
	SecondaryInstructor string                 `json:"secondary_instructor,omitempty"`
	OpenEnrollment      bool                   `json:"open_enrollment"`
	IsLocked            bool                   `json:"is_locked"`
	CreditsUsed         int                    `json:"credits_used"`
	SubmittedBy         string                 `json:"submitted_by"`
	CreatedAt           time.Time              `json:"created_at"`
	Students            []issuedRecordResponse `json:"students"`
}
