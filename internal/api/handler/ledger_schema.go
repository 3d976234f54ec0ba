package handler

import "time"

type purchaseRequest struct {
	PackageID  string  `json:"package_id"  validate:"required"`
	CourseType string  `json:"course_type" validate:"required"`
	Credits    int     `json:"credits"     validate:"required,gt=0"`
	Price      float64 `json:"price"       validate:"required,gt=0"`
}

type purchaseResponse struct {
	CreditRecordID  string `json:"credit_record_id"`
	CourseType      string `json:"course_type"`
	NewTotalForType int    `json:"new_total_for_type"`
}

type creditBreakdownItem struct {
	Type    string `json:"type"`
	Credits int    `json:"credits"`
}

type balanceResponse struct {
	AvailableCredits int                   `json:"available_credits"`
	CreditBreakdown  []creditBreakdownItem `json:"credit_breakdown"`
}

type purchaseHistoryItem struct {
	ID         string    `json:"id"`
	PackageID  string    `json:"package_id"`
	CourseType string    `json:"course_type"`
	Credits    int       `json:"credits"`
	Price      float64   `json:"price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type purchaseHistoryResponse struct {
	Purchases []purchaseHistoryItem `json:"purchases"`
}
