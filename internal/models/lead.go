package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadKind identifies which public form produced a lead submission.
type LeadKind string

const (
	LeadKindApply               LeadKind = "apply"
	LeadKindWhistleblower       LeadKind = "whistleblower"
	LeadKindProductSupport      LeadKind = "product-support"
	LeadKindProductRegistration LeadKind = "product-registration"
	LeadKindTechSquad           LeadKind = "techsquad"
	LeadKindWarranty            LeadKind = "warranty"
)

// Lead is a stored form submission. Name/Email/Phone are promoted to
// columns because the back office filters on them; everything else the
// form sent lives in Fields.
type Lead struct {
	ID            uuid.UUID         `json:"id"`
	Kind          LeadKind          `json:"kind"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Fields        map[string]string `json:"fields"`
	AttachmentURL *string           `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}
