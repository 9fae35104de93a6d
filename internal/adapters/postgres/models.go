package postgres

import "time"

type requestModel struct {
	RequestID      string    `gorm:"column:request_id;type:uuid;primaryKey"`
	RequesterID    string    `gorm:"column:requester_id;type:uuid"`
	VolunteerID    *string   `gorm:"column:volunteer_id;type:uuid"`
	OrganizationID *string   `gorm:"column:organization_id;type:uuid"`
	Description    string    `gorm:"column:description"`
	RequestDate    string    `gorm:"column:request_date"`
	RequestTime    string    `gorm:"column:request_time"`
	City           string    `gorm:"column:city"`
	Location       string    `gorm:"column:location"`
	Status         string    `gorm:"column:status"`
	Feedback       string    `gorm:"column:feedback"`
	FundsAllocated float64   `gorm:"column:funds_allocated"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (requestModel) TableName() string { return "service_requests" }

type campaignModel struct {
	CampaignID      string    `gorm:"column:campaign_id;type:uuid;primaryKey"`
	OrganizationID  string    `gorm:"column:organization_id;type:uuid"`
	Title           string    `gorm:"column:title"`
	Description     string    `gorm:"column:description"`
	Category        string    `gorm:"column:category"`
	City            string    `gorm:"column:city"`
	Status          string    `gorm:"column:status"`
	TargetAmount    float64   `gorm:"column:target_amount"`
	CollectedAmount float64   `gorm:"column:collected_amount"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string { return "campaigns" }

type donationModel struct {
	DonationID       string    `gorm:"column:donation_id;type:uuid;primaryKey"`
	CampaignID       string    `gorm:"column:campaign_id;type:uuid"`
	DonorID          *string   `gorm:"column:donor_id;type:uuid"`
	Amount           float64   `gorm:"column:amount"`
	GatewayOrderID   string    `gorm:"column:gateway_order_id;uniqueIndex:ux_donations_gateway_order_id"`
	GatewayPaymentID string    `gorm:"column:gateway_payment_id"`
	Status           string    `gorm:"column:status"`
	DonatedAt        time.Time `gorm:"column:donated_at"`
}

func (donationModel) TableName() string { return "donations" }

type identityModel struct {
	UserID         string    `gorm:"column:user_id;type:uuid;primaryKey"`
	Role           string    `gorm:"column:role"`
	FullName       string    `gorm:"column:full_name"`
	Email          string    `gorm:"column:email;uniqueIndex:ux_identities_email"`
	Phone          string    `gorm:"column:phone"`
	City           string    `gorm:"column:city"`
	Status         string    `gorm:"column:status"`
	IDProofPath    string    `gorm:"column:id_proof_path"`
	Availability   string    `gorm:"column:availability"`
	RegistrationNo string    `gorm:"column:registration_no"`
	PasswordHash   string    `gorm:"column:password_hash"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (identityModel) TableName() string { return "identities" }

type notificationModel struct {
	NotificationID string    `gorm:"column:notification_id;type:uuid;primaryKey"`
	UserID         string    `gorm:"column:user_id;type:uuid"`
	Message        string    `gorm:"column:message"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

type outboxModel struct {
	OutboxID       string     `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	EventClass     string     `gorm:"column:event_class"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "outbox_events" }
