package domain

import "time"

// CreditBalance tracks how many training credits a user holds for one course
// type. One row per (user, course type); created on first purchase, never
// deleted. Credits must never go negative — every decrement is guarded by a
// sufficiency check in the same transaction.
type CreditBalance struct {
	UserID     string    `json:"user_id" bson:"user_id"`
	CourseType string    `json:"course_type" bson:"course_type"`
	Credits    int       `json:"credits" bson:"credits"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// PurchaseRecord is the immutable audit row appended on every credit
// purchase. It is never updated after insertion.
type PurchaseRecord struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	UserEmail  string    `json:"user_email" bson:"user_email"`
	PackageID  string    `json:"package_id" bson:"package_id"`
	CourseType string    `json:"course_type" bson:"course_type"`
	Credits    int       `json:"credits" bson:"credits"`
	Price      float64   `json:"price" bson:"price"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// PurchaseCompleted is the only status a purchase record is ever written
// with; payment processing happens upstream of this service.
const PurchaseCompleted = "completed"
