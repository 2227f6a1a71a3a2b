// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"application-intake-bot/pkg/registry"
)

var registryPath string

// fieldFlags are the flags describing one form field, shared by add and
// add-field.
type fieldFlags struct {
	id          *string
	label       *string
	style       *string
	placeholder *string
	required    *bool
	minLength   *int
	maxLength   *int
}

func newFieldFlags(fs *flag.FlagSet, prefix string) fieldFlags {
	return fieldFlags{
		id:          fs.String(prefix+"id", "", "Form field customId (e.g., experience)"),
		label:       fs.String(prefix+"label", "", "Form field label (e.g., Years of experience)"),
		style:       fs.String(prefix+"style", string(registry.InputShort), "Input style (Short, Paragraph)"),
		placeholder: fs.String(prefix+"placeholder", "", "Placeholder text"),
		required:    fs.Bool(prefix+"required", true, "Whether a value is required"),
		minLength:   fs.Int(prefix+"minLength", 0, "Minimum value length"),
		maxLength:   fs.Int(prefix+"maxLength", 0, "Maximum value length"),
	}
}

func (f fieldFlags) field() registry.FormField {
	return registry.FormField{
		ID:          *f.id,
		Label:       *f.label,
		Style:       registry.InputStyle(*f.style),
		Placeholder: *f.placeholder,
		Required:    *f.required,
		MinLength:   *f.minLength,
		MaxLength:   *f.maxLength,
	}
}

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	addFieldCmd := flag.NewFlagSet("add-field", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	removeCmd := flag.NewFlagSet("remove", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, addFieldCmd, updateCmd, removeCmd, validateCmd, listCmd} {
		fs.StringVar(&registryPath, "path", "configs/application-types.json", "Path to registry file")
	}

	// Add command flags
	idAdd := addCmd.String("id", "", "Application type ID (e.g., backend)")
	label := addCmd.String("label", "", "Label shown on the control (e.g., Backend Developer)")
	role := addCmd.String("role", "", "Role ID granted on acceptance")
	color := addCmd.String("color", string(registry.ButtonPrimary), "Control style (Primary, Secondary, Success, Danger)")
	firstField := newFieldFlags(addCmd, "field-")

	// Add-field command flags
	idAddField := addFieldCmd.String("type", "", "Application type ID to extend")
	extraField := newFieldFlags(addFieldCmd, "")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Application type ID to update")
	field := updateCmd.String("field", "", "Field to update (label, role, color)")
	value := updateCmd.String("value", "", "New value for the field")

	// Remove command flags
	idRemove := removeCmd.String("id", "", "Application type ID to remove")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *label == "" || *role == "" || *firstField.id == "" || *firstField.label == "" {
			fmt.Println("Error: id, label, role, field-id and field-label are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		t := registry.ApplicationType{
			ID:     *idAdd,
			Label:  *label,
			Style:  registry.ButtonStyle(*color),
			RoleID: *role,
			Form:   []registry.FormField{firstField.field()},
		}
		if err := addType(t); err != nil {
			fmt.Printf("Error adding application type: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added application type: %s\n", *idAdd)

	case "add-field":
		addFieldCmd.Parse(os.Args[2:])
		if *idAddField == "" || *extraField.id == "" || *extraField.label == "" {
			fmt.Println("Error: type, id and label are required for add-field.")
			addFieldCmd.Usage()
			os.Exit(1)
		}
		if err := addField(*idAddField, extraField.field()); err != nil {
			fmt.Printf("Error adding form field: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added field %s to application type %s\n", *extraField.id, *idAddField)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateType(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating application type: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated application type %s, field %s to %s\n", *idUpdate, *field, *value)

	case "remove":
		removeCmd.Parse(os.Args[2:])
		if *idRemove == "" {
			fmt.Println("Error: id is required for remove.")
			removeCmd.Usage()
			os.Exit(1)
		}
		if err := removeType(*idRemove); err != nil {
			fmt.Printf("Error removing application type: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed application type: %s\n", *idRemove)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listTypes(); err != nil {
			fmt.Printf("Error listing registry: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func loadOrCreate() (*registry.RegistryFile, error) {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &registry.RegistryFile{
				Version:          "1.0.0",
				ApplicationTypes: []registry.ApplicationType{},
			}, nil
		}
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

// save runs the same checks the bot runs at startup, so a registry the
// tool writes is one the bot accepts.
func save(reg *registry.RegistryFile) error {
	if _, err := registry.New(reg.ApplicationTypes); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.SaveRegistry(reg, registryPath)
}

func addType(t registry.ApplicationType) error {
	reg, err := loadOrCreate()
	if err != nil {
		return err
	}
	for _, existing := range reg.ApplicationTypes {
		if existing.ID == t.ID {
			return fmt.Errorf("application type with ID %s already exists", t.ID)
		}
	}
	reg.ApplicationTypes = append(reg.ApplicationTypes, t)
	return save(reg)
}

func addField(typeID string, f registry.FormField) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	t, err := find(reg, typeID)
	if err != nil {
		return err
	}
	t.Form = append(t.Form, f)
	return save(reg)
}

func updateType(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	t, err := find(reg, id)
	if err != nil {
		return err
	}

	switch field {
	case "label":
		t.Label = value
	case "role":
		t.RoleID = value
	case "color":
		t.Style = registry.ButtonStyle(value)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return save(reg)
}

func removeType(id string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	kept := reg.ApplicationTypes[:0]
	for _, t := range reg.ApplicationTypes {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(reg.ApplicationTypes) {
		return fmt.Errorf("application type with ID %s not found", id)
	}
	reg.ApplicationTypes = kept
	return save(reg)
}

func find(reg *registry.RegistryFile, id string) (*registry.ApplicationType, error) {
	for i := range reg.ApplicationTypes {
		if reg.ApplicationTypes[i].ID == id {
			return &reg.ApplicationTypes[i], nil
		}
	}
	return nil, fmt.Errorf("application type with ID %s not found", id)
}

func validateRegistry() error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		return err
	}
	if reg.Len() == 0 {
		return fmt.Errorf("registry contains no application types")
	}
	fmt.Printf("Registry validation passed. Found %d application types.\n", reg.Len())
	return nil
}

func listTypes() error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		return err
	}
	for _, t := range reg.All() {
		fmt.Printf("%-20s %-35s role=%s color=%s fields=%s\n",
			t.ID, t.Label, t.RoleID, t.Style, strconv.Itoa(len(t.Form)))
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add        Add a new application type with its first form field
  add-field  Append a form field to an application type
  update     Update an application type's label, role or color
  remove     Remove an application type
  validate   Validate the registry file
  list       List the application types
  help       Show this help message

Examples:
  registry-updater add -id backend -label "Backend Developer" -role 900 -field-id experience -field-label "Experience" -field-style Paragraph
  registry-updater add-field -type backend -id github -label "GitHub profile" -required=false
  registry-updater update -id backend -field color -value Success
  registry-updater validate -path configs/application-types.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
