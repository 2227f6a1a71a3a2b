// internal/workers/intake/models.go
package intake

import "errors"

// Private replies sent to the applicant.
const (
	ReplyControlsPosted = "Application buttons have been posted."
	ReplySubmitted      = "Your application has been submitted!"
	ReplyTypeNotFound   = "Application type not found."
	ReplyNoTypes        = "No application types are configured."
)

// Control surface posted by Start.
const (
	SurfaceTitle       = "Apply for a Position"
	SurfaceDescription = "Click a button below to apply:"
	SurfaceColor       = 0x00ff00
	FormTitlePrefix    = "Apply for "
	ControlsPerRow     = 5
)

var errNoApplicant = errors.New("interaction carries no user")
