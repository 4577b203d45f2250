package commands

import (
	"thoughtgraph/domain/core/validators"
	"thoughtgraph/pkg/utils"
)

var entryValidator = validators.NewEntryValidator()

// CreateEntryCommand captures a new thought. EntryID is chosen by the caller
// so it can report the id without a follow-up query.
type CreateEntryCommand struct {
	EntryID string   `json:"entry_id" validate:"required,uuid"`
	Text    string   `json:"text" validate:"required"`
	Tags    []string `json:"tags"`
}

// Validate validates the command
func (c CreateEntryCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if err := entryValidator.ValidateText(c.Text); err != nil {
		return err
	}
	return entryValidator.ValidateTags(c.Tags)
}

// UpdateEntryCommand replaces an entry's text. Hashtags are re-derived.
type UpdateEntryCommand struct {
	EntryID string `json:"entry_id" validate:"required,uuid"`
	Text    string `json:"text" validate:"required"`
}

// Validate validates the command
func (c UpdateEntryCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return entryValidator.ValidateText(c.Text)
}

// ArchiveEntryCommand hides an entry from the graph and statistics
type ArchiveEntryCommand struct {
	EntryID string `json:"entry_id" validate:"required,uuid"`
}

// Validate validates the command
func (c ArchiveEntryCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// PurgeArchivedCommand permanently deletes archived entries
type PurgeArchivedCommand struct {
	// DryRun reports what would be deleted without deleting
	DryRun bool `json:"dry_run"`

	// Result, when set, receives the ids that were (or would be) deleted
	Result *PurgeArchivedResult `json:"-"`
}

// Validate validates the command
func (c PurgeArchivedCommand) Validate() error {
	return nil
}

// PurgeArchivedResult lists purged entry ids
type PurgeArchivedResult struct {
	Deleted []string
}
