package co2report

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyReport    = errors.New("report content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrWriteArtifact  = errors.New("failed to write report artifact")
	ErrInvalidOption  = errors.New("invalid converter option")
)
