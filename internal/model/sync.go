package model

import "time"

// ResolutionStrategy selects how detected conflicts are resolved.
type ResolutionStrategy string

const (
	ResolutionManual     ResolutionStrategy = "manual"
	ResolutionRemoteWins ResolutionStrategy = "remote_wins"
	ResolutionLocalWins  ResolutionStrategy = "local_wins"
)

// SyncConfig is the persisted sync configuration. Either a single
// (Owner, Repo) pair is configured, or AllRepositories is set and the
// engine enumerates every accessible repository.
type SyncConfig struct {
	Enabled          bool               `json:"enabled"`
	Owner            string             `json:"owner,omitempty"`
	Repo             string             `json:"repo,omitempty"`
	AllRepositories  bool               `json:"all_repositories,omitempty"`
	ColumnMappings   []ColumnMapping    `json:"column_mappings"`
	AutoSync         bool               `json:"auto_sync"`
	SyncInterval     time.Duration      `json:"sync_interval,omitempty"`
	ConflictStrategy ResolutionStrategy `json:"conflict_strategy"`
}

// ColumnMapping links a board column to a remote issue state and label
// set. Used both to classify incoming issues into columns and to decide
// the outgoing state of an issue whose card sits in the column.
type ColumnMapping struct {
	ColumnID    string   `json:"column_id"`
	ColumnTitle string   `json:"column_title"`
	IssueState  string   `json:"issue_state"` // "open" or "closed"
	Labels      []string `json:"labels,omitempty"`
}

// ConflictType classifies a field-level divergence between a paired
// card and issue.
type ConflictType string

const (
	ConflictTitle       ConflictType = "title_mismatch"
	ConflictDescription ConflictType = "description_mismatch"
	ConflictState       ConflictType = "state_mismatch"
	ConflictLabels      ConflictType = "label_mismatch"
)

// SyncConflict records one detected divergence. A conflict with a nil
// Resolution is open; once a Resolution is attached it is immutable.
// Conflicts are pass-scoped value objects, created fresh on every run.
type SyncConflict struct {
	ID          string       `json:"id"`
	CardID      string       `json:"card_id"`
	Owner       string       `json:"owner,omitempty"`
	Repo        string       `json:"repo,omitempty"`
	IssueNumber int          `json:"issue_number"`
	Type        ConflictType `json:"type"`
	LocalValue  string       `json:"local_value"`
	RemoteValue string       `json:"remote_value"`
	DetectedAt  time.Time    `json:"detected_at"`
	Resolution  *Resolution  `json:"resolution,omitempty"`
}

// Resolved reports whether a resolution has been attached.
func (c *SyncConflict) Resolved() bool {
	return c.Resolution != nil
}

// Resolution records which side's value won for a conflict.
type Resolution struct {
	Strategy      string    `json:"strategy"` // "use_local" or "use_remote"
	ResolvedValue string    `json:"resolved_value"`
	ResolvedBy    string    `json:"resolved_by"`
	ResolvedAt    time.Time `json:"resolved_at"`
}

const (
	// ResolverAuto identifies resolutions applied by the configured
	// strategy rather than a user.
	ResolverAuto = "auto"

	// UseLocal and UseRemote are the recorded resolution strategies.
	UseLocal  = "use_local"
	UseRemote = "use_remote"
)

// OperationKind discriminates the SyncOperation payload union.
type OperationKind string

const (
	OpCreateCard  OperationKind = "create_card"
	OpUpdateCard  OperationKind = "update_card"
	OpCreateIssue OperationKind = "create_issue"
	OpUpdateIssue OperationKind = "update_issue"
)

// OperationStatus is the operation lifecycle state. Completed and
// failed are terminal.
type OperationStatus string

const (
	OpPending    OperationStatus = "pending"
	OpInProgress OperationStatus = "in_progress"
	OpCompleted  OperationStatus = "completed"
	OpFailed     OperationStatus = "failed"
)

// SyncOperation is one proposed mutation awaiting execution. Exactly
// one payload field matching Kind is non-nil; the executor dispatches
// exhaustively on Kind. Operations are pass-scoped and never persisted.
type SyncOperation struct {
	ID          string          `json:"id"`
	Kind        OperationKind   `json:"kind"`
	CardID      string          `json:"card_id,omitempty"`
	IssueNumber int             `json:"issue_number,omitempty"`
	Status      OperationStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	CreateCard  *CreateCardPayload  `json:"create_card,omitempty"`
	UpdateCard  *UpdateCardPayload  `json:"update_card,omitempty"`
	CreateIssue *CreateIssuePayload `json:"create_issue,omitempty"`
	UpdateIssue *UpdateIssuePayload `json:"update_issue,omitempty"`
}

// CardFields is the partial card content applied by card operations.
type CardFields struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Labels      []CardLabel `json:"labels,omitempty"`
	Assignee    string      `json:"assignee,omitempty"`
	Remote      *RemoteRef  `json:"remote,omitempty"`
}

// CreateCardPayload creates a new card in the target column.
type CreateCardPayload struct {
	ColumnID string     `json:"column_id"`
	Fields   CardFields `json:"fields"`
}

// UpdateCardPayload applies remote metadata to an existing card.
// Column membership is never changed by a metadata sync.
type UpdateCardPayload struct {
	CardID string     `json:"card_id"`
	Fields CardFields `json:"fields"`
}

// CreateIssuePayload creates a remote issue for a card.
type CreateIssuePayload struct {
	Owner    string   `json:"owner"`
	Repo     string   `json:"repo"`
	Title    string   `json:"title"`
	Body     string   `json:"body,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Assignee string   `json:"assignee,omitempty"`
}

// UpdateIssuePayload pushes card state to an existing remote issue.
// Labels carries names only.
type UpdateIssuePayload struct {
	Owner       string   `json:"owner"`
	Repo        string   `json:"repo"`
	IssueNumber int      `json:"issue_number"`
	Title       string   `json:"title"`
	Body        string   `json:"body,omitempty"`
	State       string   `json:"state"`
	Labels      []string `json:"labels,omitempty"`
}

// SyncStats aggregates what a pass produced or executed.
type SyncStats struct {
	CardsCreated      int `json:"cards_created"`
	CardsUpdated      int `json:"cards_updated"`
	CardsDeleted      int `json:"cards_deleted"`
	IssuesCreated     int `json:"issues_created"`
	IssuesUpdated     int `json:"issues_updated"`
	ConflictsResolved int `json:"conflicts_resolved"`
	SkippedIssues     int `json:"skipped_issues"`
}

// SyncResult is the bundle returned by one orchestrator run.
type SyncResult struct {
	Success    bool            `json:"success"`
	Operations []SyncOperation `json:"operations"`
	Conflicts  []SyncConflict  `json:"conflicts"`
	Stats      SyncStats       `json:"stats"`
	Error      string          `json:"error,omitempty"`
}

// SyncErrorKind is the run-level error taxonomy.
type SyncErrorKind string

const (
	SyncErrAPI        SyncErrorKind = "api_error"
	SyncErrRateLimit  SyncErrorKind = "rate_limit_exceeded"
	SyncErrValidation SyncErrorKind = "validation_error"
	SyncErrUnknown    SyncErrorKind = "unknown"
)

// SyncError is an accumulated run-level error visible on the status
// snapshot until cleared.
type SyncError struct {
	ID        string        `json:"id"`
	Kind      SyncErrorKind `json:"kind"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Resolved  bool          `json:"resolved"`
}

// SyncRunStatus is the reporting snapshot exposed to the caller. It is
// observed state, not a control mechanism; the engine serializes runs
// with its own mutex.
type SyncRunStatus struct {
	IsActive  bool        `json:"is_active"`
	LastSync  *time.Time  `json:"last_sync,omitempty"`
	NextSync  *time.Time  `json:"next_sync,omitempty"`
	Errors    []SyncError `json:"errors,omitempty"`
	LastStats *SyncStats  `json:"last_stats,omitempty"`
}
