package config

// Layout constants
const (
	// Box table columns
	ColumnIDWidth       = 8
	ColumnTitleWidth    = 36
	ColumnUploaderWidth = 16
	ColumnTypeWidth     = 10
	ColumnCreatedWidth  = 16
	DefaultTableHeight  = 18

	// Upload form
	InputWidth             = 48
	FileNameTruncateLength = 40
	MaxVisibleFiles        = 8

	// Dialogs
	DialogDefaultWidth = 50
	DialogLargeWidth   = 64

	// Rows reserved for header, status line and footer
	ChromeHeight = 8
)
