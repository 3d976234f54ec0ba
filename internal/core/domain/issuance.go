package domain

import "time"

// IssuanceGroup is the locked parent record ("digital card") created when a
// class submission is committed. It is immutable after creation: IsLocked is
// set to true on insert and no code path ever clears it. Corrections happen
// out of band through a change-request ticket referencing the group id.
type IssuanceGroup struct {
	GroupID             string    `json:"group_id" bson:"_id"`
	ClassID             string    `json:"class_id" bson:"class_id"`
	Program             string    `json:"program" bson:"program"`
	Site                string    `json:"site" bson:"site"`
	ClassType           string    `json:"class_type" bson:"class_type"`
	StartDate           string    `json:"start_date" bson:"start_date"`
	EndDate             string    `json:"end_date" bson:"end_date"`
	PrimaryInstructor   string    `json:"primary_instructor" bson:"primary_instructor"`
	SecondaryInstructor string    `json:"secondary_instructor,omitempty" bson:"secondary_instructor,omitempty"`
	OpenEnrollment      bool      `json:"open_enrollment" bson:"open_enrollment"`
	IsLocked            bool      `json:"is_locked" bson:"is_locked"`
	CreditsUsed         int       `json:"credits_used" bson:"credits_used"`
	SubmittedBy         string    `json:"submitted_by" bson:"submitted_by"`
	OwnerID             string    `json:"owner_id" bson:"owner_id"`
	IdempotencyKey      string    `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// IssuedRecord is one student's certificate entry within an issuance group.
// The number of records under a group always equals the group's CreditsUsed.
type IssuedRecord struct {
	GroupID        string    `json:"group_id" bson:"group_id"`
	FirstName      string    `json:"first_name" bson:"first_name"`
	LastName       string    `json:"last_name" bson:"last_name"`
	Email          string    `json:"email" bson:"email"`
	CertificateRef string    `json:"certificate_ref" bson:"certificate_ref"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
