package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeSaveAs
	ModeOpen
	ModeExportDialog
	ModeExportFile
	ModeResizeInput
	ModeImportInput
	ModeHelp
	ModeConfirmQuit
	ModeRecovery
	ModeColorSliders
)

type ExportFormat int

const (
	ExportPlain ExportFormat = iota
	ExportANSI
	ExportPNG
)

type ExportDest int

const (
	ExportToClipboard ExportDest = iota
	ExportToFile
)

const (
	// Status messages expire after this many ticks (~1 tick/second).
	statusTicks = 3

	// How many recently used colors the palette remembers.
	maxRecentColors = 8
)
