// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogInitialize Op = "initialize catalog"
	OpCatalogSave       Op = "save record"
	OpCatalogDelete     Op = "delete record"
	OpCatalogGet        Op = "get record"
	OpCatalogSearch     Op = "search records"
	OpCatalogClear      Op = "clear catalog"

	// Scan operations
	OpScanWalk    Op = "scan directory"
	OpScanExtract Op = "extract metadata"

	// Duplicate detection operations
	OpDuplicateFind Op = "find duplicates"

	// Organize operations
	OpOrganizeCopy   Op = "copy file"
	OpOrganizeTarget Op = "compute target path"

	// Template operations
	OpTemplateParse  Op = "parse template"
	OpTemplateRender Op = "render template"

	// Profile operations
	OpProfileCreate Op = "create profile"
	OpProfileDelete Op = "delete profile"
	OpProfileSwitch Op = "switch active profile"
	OpProfileLoad   Op = "load profile configuration"
	OpProfileSave   Op = "save profile configuration"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
