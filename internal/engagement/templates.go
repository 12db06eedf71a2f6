package engagement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

// Placeholders understood by the template preview
const (
	PlaceholderCustomerName  = "{{customer_name}}"
	PlaceholderTransactionID = "{{transaction_id}}"

	SampleCustomerName  = "Liam"
	SampleTransactionID = "TX-DESK-4521"
)

// TemplatePatch carries the template fields to change. Nil fields are left as they are.
type TemplatePatch struct {
	Subject     *string `json:"subject"`
	Body        *string `json:"body"`
	BannerImage *string `json:"bannerImage"`
}

// PatchTemplate applies patch to the template of feature id and stamps lastUpdated
func PatchTemplate(features []model.CESFeature, id string, patch TemplatePatch, now time.Time) ([]model.CESFeature, error) {
	return editTemplate(features, id, now, func(t *model.EmailTemplate) {
		if patch.Subject != nil {
			t.Subject = *patch.Subject
		}
		if patch.Body != nil {
			t.Body = *patch.Body
		}
		if patch.BannerImage != nil {
			t.BannerImage = *patch.BannerImage
		}
	})
}

// AddAttachment appends att to the template of feature id, assigning an id when it has none
func AddAttachment(features []model.CESFeature, id string, att model.Attachment, now time.Time) ([]model.CESFeature, model.Attachment, error) {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	updated, err := editTemplate(features, id, now, func(t *model.EmailTemplate) {
		t.Attachments = append(append([]model.Attachment(nil), t.Attachments...), att)
	})
	return updated, att, err
}

// RemoveAttachment drops the attachment attachmentID from the template of feature id.
// Removing an attachment that is not there still stamps lastUpdated.
func RemoveAttachment(features []model.CESFeature, id, attachmentID string, now time.Time) ([]model.CESFeature, error) {
	return editTemplate(features, id, now, func(t *model.EmailTemplate) {
		kept := make([]model.Attachment, 0, len(t.Attachments))
		for _, a := range t.Attachments {
			if a.ID != attachmentID {
				kept = append(kept, a)
			}
		}
		t.Attachments = kept
	})
}

// Preview is a template with its placeholders filled in
type Preview struct {
	Subject     string             `json:"subject"`
	Body        string             `json:"body"`
	BannerImage string             `json:"bannerImage,omitempty"`
	Attachments []model.Attachment `json:"attachments,omitempty"`
}

// RenderPreview substitutes the customer name and transaction id into subject and body
func RenderPreview(t model.EmailTemplate, customerName, transactionID string) Preview {
	r := strings.NewReplacer(
		PlaceholderCustomerName, customerName,
		PlaceholderTransactionID, transactionID,
	)
	return Preview{
		Subject:     r.Replace(t.Subject),
		Body:        r.Replace(t.Body),
		BannerImage: t.BannerImage,
		Attachments: t.Attachments,
	}
}

func editTemplate(features []model.CESFeature, id string, now time.Time, edit func(*model.EmailTemplate)) ([]model.CESFeature, error) {
	idx := indexOf(features, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	updated := make([]model.CESFeature, len(features))
	copy(updated, features)

	edit(&updated[idx].Template)
	stamp := now
	updated[idx].Template.LastUpdated = &stamp
	return updated, nil
}
