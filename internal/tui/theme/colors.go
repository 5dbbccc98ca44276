package theme

// Terminal-compatible color constants using ANSI standard colors
const (
	ColorWhite        = "#FFFFFF" // primary text
	ColorBrightBlack  = "#808080" // secondary text
	ColorBrightBlue   = "#5C7CFA" // primary accent
	ColorBrightCyan   = "#3BC9DB" // secondary accent
	ColorBrightGreen  = "#51CF66" // success
	ColorBrightYellow = "#FFD43B" // warning, loading
	ColorBrightRed    = "#FF6B6B" // error
	ColorDialogBg     = "#1A1A1A"

	// File category colors for the upload file list
	ColorFileImage        = "#74C0FC"
	ColorFileDocument     = "#51CF66"
	ColorFileSpreadsheet  = "#69DB7C"
	ColorFilePresentation = "#FFD43B"
	ColorFileArchive      = "#FCC419"
	ColorFileVideo        = "#FF8787"
	ColorFileAudio        = "#DA77F2"
	ColorFileText         = "#74C0FC"
)

// GetFileColor returns the color for a given file category
func GetFileColor(category string) string {
	switch category {
	case "image":
		return ColorFileImage
	case "document":
		return ColorFileDocument
	case "spreadsheet":
		return ColorFileSpreadsheet
	case "presentation":
		return ColorFilePresentation
	case "archive":
		return ColorFileArchive
	case "video":
		return ColorFileVideo
	case "audio":
		return ColorFileAudio
	case "text":
		return ColorFileText
	default:
		return ColorWhite
	}
}

// GetCategoryEmoji returns the list icon for a file category
func GetCategoryEmoji(category string) string {
	switch category {
	case "image":
		return "🖼️"
	case "document":
		return "📝"
	case "spreadsheet":
		return "📊"
	case "presentation":
		return "📽️"
	case "archive":
		return "📦"
	case "video":
		return "🎬"
	case "audio":
		return "🎵"
	case "text":
		return "📄"
	default:
		return "📁"
	}
}

// Message kinds, in the order used by the messaging package
const (
	MessageInfo = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// GetMessageColor returns the color for a given message kind
func GetMessageColor(kind int) string {
	switch kind {
	case MessageError:
		return ColorBrightRed
	case MessageSuccess:
		return ColorBrightGreen
	case MessageWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a given message kind
func GetMessageIcon(kind int) string {
	switch kind {
	case MessageError:
		return "❌"
	case MessageSuccess:
		return "✅"
	case MessageWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
