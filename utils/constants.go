package utils

// Application constants
const (
	// Application name
	AppName = "Lovi"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum title length for a deal
	MinTitleLength = 3

	// Maximum title length for a deal
	MaxTitleLength = 120

	// Minimum rating
	MinRating = 1

	// Maximum rating
	MaxRating = 5

	// Bonus points granted for leaving a review
	ReviewBonusPoints = 10
)

// Error messages
const (
	ErrUnauthorized = "Unauthorized access"
	ErrForbidden    = "Access forbidden"

	ErrInvalidRating     = "Rating must be between 1 and 5"
	ErrInvalidPagination = "Invalid pagination parameters"

	ErrRecordNotFound = "Record not found"
)
