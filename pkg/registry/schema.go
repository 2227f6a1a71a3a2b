// pkg/registry/schema.go
package registry

// RegistryFile is the on-disk document holding every application type.
type RegistryFile struct {
	Version          string            `json:"version"`
	LastUpdated      string            `json:"lastUpdated"`
	ApplicationTypes []ApplicationType `json:"applicationTypes"`
}

// ButtonStyle names the style of the control rendered for a type.
type ButtonStyle string

const (
	ButtonPrimary   ButtonStyle = "Primary"
	ButtonSecondary ButtonStyle = "Secondary"
	ButtonSuccess   ButtonStyle = "Success"
	ButtonDanger    ButtonStyle = "Danger"
)

// InputStyle is the input shape of a form field.
type InputStyle string

const (
	InputShort     InputStyle = "Short"
	InputParagraph InputStyle = "Paragraph"
)

// ApplicationType is one position a user can apply for.
type ApplicationType struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Style  ButtonStyle `json:"color"`
	RoleID string      `json:"role"`
	Form   []FormField `json:"form"`
}

// FormField is one input of an application form. ID is the key the
// submitted value is extracted by.
type FormField struct {
	ID          string     `json:"customId"`
	Label       string     `json:"label"`
	Style       InputStyle `json:"style"`
	Placeholder string     `json:"placeholder,omitempty"`
	Required    bool       `json:"required"`
	MinLength   int        `json:"minLength,omitempty"`
	MaxLength   int        `json:"maxLength,omitempty"`
}

// Platform limits the registry is validated against.
const (
	MaxApplicationTypes = 25
	MaxCustomIDLength   = 100
	// MaxTypeIDLength keeps applicationModal_apply_<id> within
	// MaxCustomIDLength.
	MaxTypeIDLength     = MaxCustomIDLength - len("applicationModal_apply_")
	MaxFormFields       = 5
	MaxLabelLength      = 35
	MaxFieldLabelLength = 45
	MaxPlaceholder      = 100
	MaxInputLength      = 4000
)

// documentSchema is the JSON schema every registry file must satisfy.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["applicationTypes"],
  "properties": {
    "version": {"type": "string"},
    "lastUpdated": {"type": "string"},
    "applicationTypes": {
      "type": "array",
      "maxItems": 25,
      "items": {
        "type": "object",
        "required": ["id", "label", "role", "form"],
        "properties": {
          "id": {"type": "string", "pattern": "^[A-Za-z0-9_-]{1,77}$"},
          "label": {"type": "string", "minLength": 1, "maxLength": 35},
          "color": {"type": "string", "enum": ["Primary", "Secondary", "Success", "Danger", ""]},
          "role": {"type": "string", "pattern": "^[0-9]+$"},
          "form": {
            "type": "array",
            "minItems": 1,
            "maxItems": 5,
            "items": {
              "type": "object",
              "required": ["customId", "label", "style"],
              "properties": {
                "customId": {"type": "string", "pattern": "^[A-Za-z0-9_-]{1,100}$"},
                "label": {"type": "string", "minLength": 1, "maxLength": 45},
                "style": {"type": "string", "enum": ["Short", "Paragraph"]},
                "placeholder": {"type": "string", "maxLength": 100},
                "required": {"type": "boolean"},
                "minLength": {"type": "integer", "minimum": 0, "maximum": 4000},
                "maxLength": {"type": "integer", "minimum": 0, "maximum": 4000}
              }
            }
          }
        }
      }
    }
  }
}`
