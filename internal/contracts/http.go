package contracts

type CreateRequestRequest struct {
	RequesterID string `json:"requester_id"`
	Description string `json:"description"`
	RequestDate string `json:"request_date,omitempty"`
	RequestTime string `json:"request_time,omitempty"`
	City        string `json:"city,omitempty"`
	Location    string `json:"location,omitempty"`
}

type AssignVolunteerRequest struct {
	VolunteerID    string `json:"volunteer_id"`
	OrganizationID string `json:"organization_id"`
}

type OrganizationAcceptRequest struct {
	OrganizationID string `json:"organization_id"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

type AllocateFundsRequest struct {
	Amount float64 `json:"amount"`
}

type CreateCampaignRequest struct {
	OrganizationID string  `json:"organization_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Category       string  `json:"category,omitempty"`
	TargetAmount   float64 `json:"target_amount"`
}

type DirectDonationRequest struct {
	Amount float64 `json:"amount"`
}

type CreateOrderRequest struct {
	CampaignID string  `json:"campaign_id"`
	Amount     float64 `json:"amount"`
}

type VerifyPaymentRequest struct {
	OrderID    string  `json:"order_id"`
	PaymentID  string  `json:"payment_id"`
	Signature  string  `json:"signature"`
	CampaignID string  `json:"campaign_id"`
	Amount     float64 `json:"amount"`
	DonorID    string  `json:"donor_id,omitempty"`
}

type VerifyPaymentResponse struct {
	Settled        bool   `json:"settled"`
	AlreadySettled bool   `json:"already_settled"`
	DonationID     string `json:"donation_id,omitempty"`
}

type RegisterIdentityRequest struct {
	Role           string `json:"role"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone,omitempty"`
	City           string `json:"city,omitempty"`
	IDProofPath    string `json:"id_proof_path,omitempty"`
	Availability   string `json:"availability,omitempty"`
	RegistrationNo string `json:"registration_no,omitempty"`
}

type DashboardSummaryResponse struct {
	Requesters    RoleStats `json:"requesters"`
	Volunteers    RoleStats `json:"volunteers"`
	Organizations RoleStats `json:"organizations"`
	Donors        RoleStats `json:"donors"`
}

type RoleStats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
}
