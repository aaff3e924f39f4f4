package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when deleting a draw that still has a result
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Draw Operations
const (
	ErrMsgFailedToCreateDraw         = "failed to create draw"
	ErrMsgFailedToGetDraw            = "failed to get draw"
	ErrMsgFailedToListDraws          = "failed to list draws"
	ErrMsgFailedToUpdateDraw         = "failed to update draw"
	ErrMsgFailedToDeleteDraw         = "failed to delete draw"
	ErrMsgFailedToCompleteDraw       = "failed to complete draw"
	ErrMsgFailedToInsertResult       = "failed to insert draw result"
	ErrMsgFailedToGetResult          = "failed to get draw result"
	ErrMsgFailedToUpdateVerification = "failed to update verification"
	ErrMsgFailedToListResults        = "failed to list draw results"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
