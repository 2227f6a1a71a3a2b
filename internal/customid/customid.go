// internal/customid/customid.go

// Package customid encodes and decodes the identifiers carried by controls
// and forms. The string formats are the wire protocol between a rendered
// surface and the interaction it later produces, so they must not change:
//
//	apply_<typeId>
//	applicationModal_apply_<typeId>
//	acceptApplication_<recordId>
//	rejectApplication_<recordId>
//	rejectModal_<recordId>
package customid

import "strings"

const (
	PrefixApply             = "apply_"
	PrefixApplicationModal  = "applicationModal_"
	PrefixAcceptApplication = "acceptApplication_"
	PrefixRejectApplication = "rejectApplication_"
	PrefixRejectModal       = "rejectModal_"
)

// Source is the kind of surface an identifier arrived from. Control and
// form identifiers live in separate namespaces.
type Source int

const (
	SourceControl Source = iota + 1
	SourceForm
)

// Action is the decoded form of an identifier. The concrete types below are
// the only implementations.
type Action interface {
	CustomID() string
	isAction()
}

// Apply is a press on an application type control.
type Apply struct{ TypeID string }

// ApplicationModal is the submission of an application form.
type ApplicationModal struct{ TypeID string }

// AcceptApplication is a press on a record's accept control.
type AcceptApplication struct{ RecordID string }

// RejectApplication is a press on a record's reject control.
type RejectApplication struct{ RecordID string }

// RejectModal is the submission of a rejection reason form.
type RejectModal struct{ RecordID string }

func (a Apply) CustomID() string            { return PrefixApply + a.TypeID }
func (a ApplicationModal) CustomID() string { return PrefixApplicationModal + PrefixApply + a.TypeID }
func (a AcceptApplication) CustomID() string {
	return PrefixAcceptApplication + a.RecordID
}
func (a RejectApplication) CustomID() string {
	return PrefixRejectApplication + a.RecordID
}
func (a RejectModal) CustomID() string { return PrefixRejectModal + a.RecordID }

func (Apply) isAction()             {}
func (ApplicationModal) isAction()  {}
func (AcceptApplication) isAction() {}
func (RejectApplication) isAction() {}
func (RejectModal) isAction()       {}

// Parse decodes id as seen from src. ok is false for identifiers this
// package does not own; callers ignore those.
//
// An application form identifier whose remainder lacks the apply_ prefix
// decodes to an ApplicationModal with an empty TypeID, which never resolves
// to a registered type.
func Parse(src Source, id string) (Action, bool) {
	switch src {
	case SourceControl:
		switch {
		case strings.HasPrefix(id, PrefixApply):
			return Apply{TypeID: id[len(PrefixApply):]}, true
		case strings.HasPrefix(id, PrefixAcceptApplication):
			return AcceptApplication{RecordID: recordID(id)}, true
		case strings.HasPrefix(id, PrefixRejectApplication):
			return RejectApplication{RecordID: recordID(id)}, true
		}
	case SourceForm:
		switch {
		case strings.HasPrefix(id, PrefixApplicationModal):
			rest := id[len(PrefixApplicationModal):]
			if !strings.HasPrefix(rest, PrefixApply) {
				return ApplicationModal{}, true
			}
			return ApplicationModal{TypeID: rest[len(PrefixApply):]}, true
		case strings.HasPrefix(id, PrefixRejectModal):
			return RejectModal{RecordID: recordID(id)}, true
		}
	}
	return nil, false
}

// recordID is the remainder after the first separator.
func recordID(id string) string {
	_, rest, _ := strings.Cut(id, "_")
	return rest
}
