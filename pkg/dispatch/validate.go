package dispatch

import (
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/pipeline"
	"github.com/dmitrymomot/notifykit/pkg/validate"
)

// validateRecipients checks every recipient and reports all offending indexes
// at once. Any failure aborts the whole call before dispatch starts.
func validateRecipients(recipients []pipeline.RecipientInfo) error {
	var all validate.ValidationErrors
	for i, r := range recipients {
		prefix := fmt.Sprintf("recipients[%d].", i)
		err := validate.Apply(
			validate.Required(prefix+"userId", r.UserID),
			validate.OptionalEmail(prefix+"email", r.Email),
			validate.ValidPhone(prefix+"phone", r.Phone),
			validate.ValidLocale(prefix+"locale", r.Locale),
		)
		if err != nil {
			all = append(all, validate.Extract(err)...)
		}
	}
	if len(all) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecipients, all)
	}
	return nil
}
