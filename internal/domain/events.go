package domain

// Event types emitted through the transactional outbox. Notification-class
// events are dispatched to the mailer by the worker; domain-class events go to
// the broker.
const (
	EventRequestCreated     = "request.created"
	EventVolunteerAssigned  = "request.volunteer_assigned"
	EventRequestAccepted    = "request.accepted"
	EventAssignmentRejected = "request.assignment_rejected"
	EventRequestCompleted   = "request.completed"
	EventFundsAllocated     = "request.funds_allocated"
	EventCampaignCreated    = "campaign.created"
	EventCampaignCompleted  = "campaign.completed"
	EventDonationSettled    = "donation.settled"
	EventIdentityRegistered = "identity.registered"
	EventIdentityApproved   = "identity.approved"
	EventIdentityRejected   = "identity.rejected"

	EventNotificationRequested = "notification.requested"
)
